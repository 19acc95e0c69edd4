package constants

// Order status constants
const (
	OrderStatusPending    = "pending"
	OrderStatusProduction = "production"
	OrderStatusShipped    = "shipped"
	OrderStatusReady      = "ready"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProduction,
	OrderStatusShipped,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Commission status constants
const (
	CommissionStatusPending = "pending"
	CommissionStatusPaid    = "paid"
)

// Payout status constants
const (
	PayoutStatusPending   = "pending"
	PayoutStatusCompleted = "completed"
)

// Salon status constants
const (
	SalonStatusActive   = "active"
	SalonStatusInactive = "inactive"
)

// Admin role constants
const (
	AdminRoleSuper      = "superadmin"
	AdminRoleAdmin      = "admin"
	AdminRoleOperations = "operations"
)

// Admin status constants
const (
	AdminStatusActive   = "active"
	AdminStatusInactive = "inactive"
)

// Actor types carried in bearer tokens
const (
	ActorTypeAdmin = "admin"
	ActorTypeSalon = "salon"
)

// Delivery type constants
const (
	DeliveryTypeHome   = "home"
	DeliveryTypeRelay  = "relay"
	DeliveryTypePickup = "pickup"
)

// Order / payout identifier prefixes
const (
	OrderIDPrefix  = "AVA"
	PayoutIDPrefix = "PAY"
)

// Queue names
const (
	QueueDefault = "default"
)

// Async task type names
const (
	TaskOrderConfirmationEmail = "email:order_confirmation"
	TaskPayoutProcessedEmail   = "email:payout_processed"
)
