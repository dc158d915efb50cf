package constants

const (
	ManageOwnListings  = "manage_own_listings"
	EditProfile        = "edit_profile"
	ModerateListings   = "moderate_listings"
	ManageAvailability = "manage_availability"
	ReorderListings    = "reorder_listings"
	PurgeListings      = "purge_listings"
	ViewAudit          = "view_audit"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ManageOwnListings:  {Guide},
	EditProfile:        {Guide},
	ModerateListings:   {Operator},
	ManageAvailability: {Operator},
	ReorderListings:    {Operator},
	PurgeListings:      {Operator},
	ViewAudit:          {Operator},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	for _, r := range PermissionRoles[permission] {
		if r == role {
			return true
		}
	}
	return false
}
