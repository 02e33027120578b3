package authz

import "slices"

const (
	GroupTVAdmin    = "tv_admin"
	GroupStockAdmin = "stock_admin"
)

// Principal is the authenticated requester as decoded from the access token.
// It is resolved once per request by the auth middleware and passed through
// the echo context, never re-derived inside handlers.
type Principal struct {
	UserID    uint
	Username  string
	Superuser bool
	Groups    []string
}

func (p Principal) InGroup(name string) bool {
	return slices.Contains(p.Groups, name)
}

// Policy gates the administrative surfaces. Superusers pass every check.
type Policy interface {
	CanManageCatalog(p Principal) bool
	CanManageStock(p Principal) bool
}

// GroupPolicy implements Policy from the group memberships carried in the
// token claims.
type GroupPolicy struct{}

func (GroupPolicy) CanManageCatalog(p Principal) bool {
	return p.Superuser || p.InGroup(GroupTVAdmin)
}

func (GroupPolicy) CanManageStock(p Principal) bool {
	return p.Superuser || p.InGroup(GroupStockAdmin)
}
