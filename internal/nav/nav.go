package nav

import "github.com/ishtiakalhumaidi/bidstock-client/internal/models"

// Link is one sidebar entry: a labelled route and the roles allowed to see
// it. This is presentation-level gating only; the API enforces authorization
// on its own.
type Link struct {
	Label string
	Route string
	Roles []string
}

var everyone = []string{models.RoleAdmin, models.RoleSeller, models.RoleBuyer, models.RoleWarehouseOwner}

// Table is the static navigation map for the dashboard shell.
var Table = []Link{
	{Label: "Overview", Route: "/dashboard", Roles: everyone},
	{Label: "Active Auctions", Route: "/dashboard/auctions", Roles: []string{models.RoleAdmin, models.RoleSeller, models.RoleBuyer}},
	{Label: "My Auctions", Route: "/dashboard/my-auctions", Roles: []string{models.RoleSeller}},
	{Label: "My Products", Route: "/dashboard/products", Roles: []string{models.RoleSeller}},
	{Label: "Inventory", Route: "/dashboard/inventory", Roles: []string{models.RoleSeller}},
	{Label: "Warehouses", Route: "/dashboard/warehouses", Roles: []string{models.RoleSeller, models.RoleAdmin}},
	{Label: "My Warehouses", Route: "/dashboard/my-warehouses", Roles: []string{models.RoleWarehouseOwner}},
	{Label: "My Rents", Route: "/dashboard/rents", Roles: []string{models.RoleSeller}},
	{Label: "Transactions", Route: "/dashboard/transactions", Roles: everyone},
	{Label: "Transaction Requests", Route: "/dashboard/transaction-requests", Roles: []string{models.RoleAdmin}},
	{Label: "User Management", Route: "/dashboard/users", Roles: []string{models.RoleAdmin}},
	{Label: "Profile", Route: "/dashboard/profile", Roles: everyone},
}

// LinksFor returns exactly the subset of Table whose Roles contains role,
// in table order. An unknown or empty role sees nothing.
func LinksFor(role string) []Link {
	var links []Link
	for _, link := range Table {
		for _, r := range link.Roles {
			if r == role {
				links = append(links, link)
				break
			}
		}
	}
	return links
}
