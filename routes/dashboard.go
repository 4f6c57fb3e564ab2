package routes

import (
	"encoding/json"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/services"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/kataras/iris/v12"
)

const dashboardCacheKey = "dashboard:summary"
const dashboardCacheTTL = 60 * time.Second

type dashboardSummary struct {
	MonthYear         string  `json:"monthYear"`
	RentDue           float64 `json:"rentDue"`
	RentCollected     float64 `json:"rentCollected"`
	ExpensesThisMonth float64 `json:"expensesThisMonth"`
	UnitsTotal        int64   `json:"unitsTotal"`
	UnitsOccupied     int64   `json:"unitsOccupied"`
	ArrearsCount      int     `json:"arrearsCount"`
	ArrearsTotal      float64 `json:"arrearsTotal"`
}

// GetDashboardSummary returns the current month's headline numbers, cached
// in Redis for a minute since the dashboard polls.
func GetDashboardSummary(ctx iris.Context) {
	if storage.Redis != nil {
		if cached, err := storage.Redis.Get(storage.Ctx, dashboardCacheKey).Result(); err == nil {
			var summary dashboardSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				ctx.JSON(summary)
				return
			}
		}
	}

	now := time.Now()
	monthYear := utils.MonthKeyOf(now).String()

	var monthRecords []models.RentRecord
	if err := storage.DB.Where("month_year = ?", monthYear).Find(&monthRecords).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	summary := dashboardSummary{MonthYear: monthYear}
	for _, record := range monthRecords {
		summary.RentDue += record.Amount
		summary.RentCollected += record.AmountReceived
	}

	type total struct{ Total float64 }
	var expenseTotal total
	if err := storage.DB.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("date LIKE ?", monthYear+"%").
		Scan(&expenseTotal).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	summary.ExpensesThisMonth = expenseTotal.Total

	if err := storage.DB.Model(&models.Unit{}).Count(&summary.UnitsTotal).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := storage.DB.Model(&models.Unit{}).Where("tenant_name <> ''").
		Count(&summary.UnitsOccupied).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var allRecords []models.RentRecord
	if err := storage.DB.Find(&allRecords).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	var units []models.Unit
	if err := storage.DB.Find(&units).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	arrears := services.ClassifyArrears(allRecords, units, now)
	summary.ArrearsCount = len(arrears)
	for _, entry := range arrears {
		summary.ArrearsTotal += entry.AmountRemaining
	}

	if storage.Redis != nil {
		if payload, err := json.Marshal(summary); err == nil {
			storage.Redis.Set(storage.Ctx, dashboardCacheKey, payload, dashboardCacheTTL)
		}
	}

	ctx.JSON(summary)
}
