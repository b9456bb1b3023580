package domain

// Permission is an action the console may offer to the current user.
type Permission string

const (
	PermViewCustomers     Permission = "VIEW_CUSTOMERS"
	PermCreateCustomer    Permission = "CREATE_CUSTOMER"
	PermUpdateCustomer    Permission = "UPDATE_CUSTOMER"
	PermDeleteCustomer    Permission = "DELETE_CUSTOMER"
	PermViewInteractions  Permission = "VIEW_INTERACTIONS"
	PermCreateInteraction Permission = "CREATE_INTERACTION"
	PermUpdateInteraction Permission = "UPDATE_INTERACTION"
	PermDeleteInteraction Permission = "DELETE_INTERACTION"
	PermViewCharts        Permission = "VIEW_CHARTS"
	// PermManageUsers is reserved. No role holds it.
	PermManageUsers Permission = "MANAGE_USERS"
)

// AllPermissions is the closed set of actions, in display order.
var AllPermissions = [...]Permission{
	PermViewCustomers,
	PermCreateCustomer,
	PermUpdateCustomer,
	PermDeleteCustomer,
	PermViewInteractions,
	PermCreateInteraction,
	PermUpdateInteraction,
	PermDeleteInteraction,
	PermViewCharts,
	PermManageUsers,
}
