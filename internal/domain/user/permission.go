package user

type Permission string

const (
	PermissionPunchCreate  Permission = "punch.create"
	PermissionPunchViewOwn Permission = "punch.view_own"

	PermissionRequestCreate  Permission = "request.create"
	PermissionRequestViewOwn Permission = "request.view_own"
	PermissionRequestViewAll Permission = "request.view_all"
	PermissionRequestApprove Permission = "request.approve"

	PermissionScheduleManage Permission = "schedule.manage"
	PermissionGeoFenceManage Permission = "geofence.manage"

	PermissionStatsViewOwn Permission = "stats.view_own"
	PermissionStatsViewAll Permission = "stats.view_all"
)

var employeePermissions = []Permission{
	PermissionPunchCreate,
	PermissionPunchViewOwn,
	PermissionRequestCreate,
	PermissionRequestViewOwn,
	PermissionStatsViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append([]Permission{
		PermissionRequestViewAll,
		PermissionRequestApprove,
		PermissionScheduleManage,
		PermissionGeoFenceManage,
		PermissionStatsViewAll,
	}, employeePermissions...),
	RoleHR: append([]Permission{
		PermissionRequestViewAll,
		PermissionRequestApprove,
		PermissionScheduleManage,
		PermissionGeoFenceManage,
		PermissionStatsViewAll,
	}, employeePermissions...),
	RoleManager: append([]Permission{
		PermissionRequestViewAll,
		PermissionRequestApprove,
	}, employeePermissions...),
	RoleEmployee: employeePermissions,
}

// HasPermission checks whether any of roles grants permission.
func HasPermission(roles []Role, permission Permission) bool {
	for _, role := range roles {
		for _, p := range RolePermissions[role] {
			if p == permission {
				return true
			}
		}
	}
	return false
}
