package services

import (
	"log"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/utils"

	"gorm.io/gorm"
)

// PlanRecurringMonths returns the months a rule still needs posted, oldest
// first, ending at currentMonth. A rule already posted through currentMonth
// yields nothing, which keeps posting idempotent per rule and month. An
// unparseable LastPostedMonth falls back to reposting the current month
// only.
func PlanRecurringMonths(rule models.RecurringExpense, currentMonth utils.MonthKey) []utils.MonthKey {
	start := currentMonth
	if rule.LastPostedMonth != "" {
		last, err := utils.ParseMonthKey(rule.LastPostedMonth)
		if err != nil {
			log.Printf("recurring expense %d: bad last posted month %q, reposting current month", rule.ID, rule.LastPostedMonth)
		} else if !last.Before(currentMonth) {
			return nil
		} else {
			start = last.Next()
		}
	}

	var months []utils.MonthKey
	for month := start; !month.After(currentMonth); month = month.Next() {
		months = append(months, month)
	}
	return months
}

func expenseForMonth(rule models.RecurringExpense, month utils.MonthKey) models.Expense {
	day := utils.ClampDay(rule.DayOfMonth, month.Year, month.Month)
	if day < 1 {
		day = 1
	}
	return models.Expense{
		PropertyID:   rule.PropertyID,
		PropertyName: rule.PropertyName,
		UnitID:       rule.UnitID,
		UnitNumber:   rule.UnitNumber,
		Date:         utils.FormatDate(time.Date(month.Year, month.Month, day, 0, 0, 0, 0, time.UTC)),
		Amount:       rule.Amount,
		Category:     rule.Category,
		Reason:       rule.Reason,
		Notes:        "Auto-posted from recurring rule",
	}
}

// PostRecurringExpenses materializes one Expense per recurring rule per
// month, catching up from each rule's LastPostedMonth through the month
// containing asOf. Posting and the LastPostedMonth bump share a
// transaction per rule, so a crash mid-pass can only leave whole months
// either posted or not, and the next pass resumes cleanly.
func PostRecurringExpenses(db *gorm.DB, asOf time.Time) (int, error) {
	var rules []models.RecurringExpense
	if err := db.Find(&rules).Error; err != nil {
		return 0, err
	}

	currentMonth := utils.MonthKeyOf(asOf)
	posted := 0
	var firstErr error

	for i := range rules {
		rule := &rules[i]

		months := PlanRecurringMonths(*rule, currentMonth)
		if len(months) == 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, month := range months {
				expense := expenseForMonth(*rule, month)
				if err := tx.Create(&expense).Error; err != nil {
					return err
				}
			}
			rule.LastPostedMonth = currentMonth.String()
			return tx.Save(rule).Error
		})
		if err != nil {
			log.Printf("recurring expense %d: posting failed: %v", rule.ID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		posted += len(months)
	}

	return posted, firstErr
}
