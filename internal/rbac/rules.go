package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"candidate": {
		"job:view",
		"attempt:create",
		"attempt:complete",
		"attempt:view-own",
	},
	"recruiter": {
		"job:create",
		"job:view",
		"attempt:create",
		"attempt:evaluate",
		"attempt:complete",
		"attempt:view-all",
		"audit:view",
	},
	"admin": {
		"*", // everything
	},
}
