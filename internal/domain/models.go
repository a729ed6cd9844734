package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a retail store location
type Store struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a catalog product
type Product struct {
	ID              string    `json:"id" db:"id"`
	SKU             string    `json:"sku" db:"sku"`
	Name            string    `json:"name" db:"name"`
	Brand           string    `json:"brand" db:"brand"`
	StyleNumber     string    `json:"style_number" db:"style_number"`
	UPCCode         string    `json:"upc_code" db:"upc_code"`
	DefaultMinStock int       `json:"default_min_stock" db:"default_min_stock"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// StoreProduct is the on-hand inventory position of one product at one store
type StoreProduct struct {
	StoreID      string    `json:"store_id" db:"store_id"`
	ProductID    string    `json:"product_id" db:"product_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	MinimumStock int       `json:"minimum_stock" db:"minimum_stock"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DailyAggregate is one scope's sales on one calendar day. Produced by the
// historical sales repository, most recent day first. Immutable once fetched.
type DailyAggregate struct {
	Date    time.Time `json:"date" db:"date"`
	Units   int       `json:"units" db:"units"`
	Revenue float64   `json:"revenue" db:"revenue"`
}

// ForecastPoint is one predicted future day for a store/brand scope
type ForecastPoint struct {
	Date             time.Time `json:"date"`
	Brand            string    `json:"brand"`
	PredictedRevenue float64   `json:"predicted_revenue"`
	PredictedUnits   float64   `json:"predicted_units"`
	// ConfidenceInterval is [low, high] around PredictedRevenue
	ConfidenceInterval [2]float64 `json:"confidence_interval"`
}

// SalesMetric is one day's sales for a (store, brand) pair, fed by the brand
// webhook. AO and Prebook amounts roll up into goal actuals.
type SalesMetric struct {
	ID           string          `json:"id" db:"id"`
	StoreID      string          `json:"store_id" db:"store_id"`
	Brand        string          `json:"brand" db:"brand"`
	Date         time.Time       `json:"date" db:"date"`
	AOSales      decimal.Decimal `json:"ao_sales" db:"ao_sales"`
	PrebookSales decimal.Decimal `json:"prebook_sales" db:"prebook_sales"`
	TotalUnits   int             `json:"total_units" db:"total_units"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// RepGoal is a monthly sales target set by a rep for a (store, brand, type)
type RepGoal struct {
	ID         string          `json:"id" db:"id"`
	RepID      string          `json:"rep_id" db:"rep_id"`
	StoreID    string          `json:"store_id" db:"store_id"`
	StoreName  string          `json:"store_name" db:"store_name"`
	Brand      string          `json:"brand" db:"brand"`
	GoalType   GoalType        `json:"goal_type" db:"goal_type"`
	GoalAmount decimal.Decimal `json:"goal_amount" db:"goal_amount"`
	// GoalMonth is the first day of the target month
	GoalMonth time.Time `json:"goal_month" db:"goal_month"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// GoalProgressResult is the derived attainment for one goal. Actuals are
// recomputed on read from sales metrics, never stored.
type GoalProgressResult struct {
	Percentage decimal.Decimal `json:"progress_percentage"`
	Remaining  decimal.Decimal `json:"remaining"`
	Status     GoalStatus      `json:"status"`
}

// GoalProgress joins a goal with its computed attainment for API responses
type GoalProgress struct {
	RepGoal
	ActualSales decimal.Decimal    `json:"actual_sales"`
	Progress    GoalProgressResult `json:"progress"`
	IsOverdue   bool               `json:"is_overdue"`
}

// StockAlert is a flagged inventory condition for a (store, product) pair.
// Identity for upserts is (store_id, product_id, alert_type); a nil ResolvedAt
// means the alert is active.
type StockAlert struct {
	ID          string     `json:"id" db:"id"`
	StoreID     string     `json:"store_id" db:"store_id"`
	StoreName   string     `json:"store_name" db:"store_name"`
	ProductID   string     `json:"product_id" db:"product_id"`
	ProductName string     `json:"product_name" db:"product_name"`
	StyleNumber string     `json:"style_number" db:"style_number"`
	AlertType   AlertType  `json:"alert_type" db:"alert_type"`
	Quantity    int        `json:"quantity" db:"quantity"`
	Threshold   int        `json:"threshold" db:"threshold"`
	ResolvedAt  *time.Time `json:"resolved_at" db:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// StoreHealthInput carries the aggregate order facts the health scorer needs
type StoreHealthInput struct {
	TotalRevenue     float64
	OrdersLast30Days int
	OrdersLast90Days int
	LastOrderDate    *time.Time
}

// StoreSales is the per-store sales rollup behind the stores dashboard
type StoreSales struct {
	StoreID          string      `json:"store_id"`
	StoreName        string      `json:"store_name"`
	Address          string      `json:"address"`
	CustomerMatch    string      `json:"customer_match,omitempty"`
	TotalOrders      int         `json:"total_orders"`
	TotalRevenue     float64     `json:"total_revenue"`
	TotalItemsSold   int         `json:"total_items_sold"`
	AvgOrderValue    float64     `json:"avg_order_value"`
	LastOrderDate    *time.Time  `json:"last_order_date"`
	OrdersLast30Days int         `json:"orders_last_30_days"`
	RevenueLast30    float64     `json:"revenue_last_30_days"`
	OrdersLast90Days int         `json:"orders_last_90_days"`
	RevenueLast90    float64     `json:"revenue_last_90_days"`
	PrimarySalesRep  string      `json:"primary_sales_rep,omitempty"`
	Status           StoreStatus `json:"status"`
	HealthScore      int         `json:"health_score"`
}

// StoreInventorySummary is a store's stocking position at a glance
type StoreInventorySummary struct {
	StoreID         string `json:"store_id" db:"store_id"`
	StoreName       string `json:"store_name" db:"store_name"`
	Address         string `json:"address" db:"address"`
	TotalItems      int    `json:"total_items" db:"total_items"`
	TrackedProducts int    `json:"tracked_products" db:"tracked_products"`
	LowStockItems   int    `json:"low_stock_items" db:"low_stock_items"`
	OutOfStock      int    `json:"out_of_stock" db:"out_of_stock"`
	WellStocked     int    `json:"well_stocked" db:"well_stocked"`
	InventoryHealth int    `json:"inventory_health"`
}

// DashboardSummary is the headline metrics block on the main dashboard
type DashboardSummary struct {
	TotalRevenue        float64 `json:"total_revenue" db:"total_revenue"`
	TotalOrders         int     `json:"total_orders" db:"total_orders"`
	TotalItemsSold      int     `json:"total_items_sold" db:"total_items_sold"`
	AvgOrderValue       float64 `json:"avg_order_value" db:"avg_order_value"`
	RevenueLastMonth    float64 `json:"revenue_last_month" db:"revenue_last_month"`
	OrdersLastMonth     int     `json:"orders_last_month" db:"orders_last_month"`
	RevenueCurrentMonth float64 `json:"revenue_current_month" db:"revenue_current_month"`
	OrdersCurrentMonth  int     `json:"orders_current_month" db:"orders_current_month"`
	ActiveCustomers     int     `json:"active_customers" db:"active_customers"`
}

// MonthlyComparison is current vs previous month revenue with growth
type MonthlyComparison struct {
	CurrentMonth     float64 `json:"current_month"`
	LastMonth        float64 `json:"last_month"`
	GrowthPercentage float64 `json:"growth_percentage"`
}

// TopCustomer is one row of the top-customers dashboard table
type TopCustomer struct {
	CustomerName     string     `json:"customer_name" db:"customer_name"`
	CustomerCategory string     `json:"customer_category" db:"customer_category"`
	TotalOrders      int        `json:"total_orders" db:"total_orders"`
	TotalRevenue     float64    `json:"total_revenue" db:"total_revenue"`
	TotalItems       int        `json:"total_items" db:"total_items"`
	AvgOrderValue    float64    `json:"avg_order_value" db:"avg_order_value"`
	LastOrderDate    *time.Time `json:"last_order_date" db:"last_order_date"`
}

// SalesRepPerformance is one row of the rep leaderboard
type SalesRepPerformance struct {
	SalesRepName    string  `json:"sales_rep_name" db:"sales_rep_name"`
	TotalOrders     int     `json:"total_orders" db:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue" db:"total_revenue"`
	AvgOrderValue   float64 `json:"avg_order_value" db:"avg_order_value"`
	UniqueCustomers int     `json:"unique_customers" db:"unique_customers"`
}

// RecentOrder is one row of the recent-orders feed
type RecentOrder struct {
	OrderNumber  string    `json:"order_number" db:"order_number"`
	CustomerName string    `json:"customer_name" db:"customer_name"`
	OrderDate    time.Time `json:"order_date" db:"order_date"`
	OrderStatus  string    `json:"order_status" db:"order_status"`
	OrderRevenue float64   `json:"order_revenue" db:"order_revenue"`
	ItemsSold    int       `json:"items_sold" db:"items_sold"`
}

// ForecastFilter scopes a forecast request
type ForecastFilter struct {
	StoreID string
	Brand   string
	Horizon int
}
