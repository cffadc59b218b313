package rbac

// RolePermissions is the default permission matrix. Staff author surveys and
// schedule them; students see what the resolver assigns them and submit
// responses; mentors are students plus visibility into their mentees.
var RolePermissions = map[string][]string{
	"staff": {
		"survey:*",
		"schedule:*",
		"group:*",
		"student:view",
		"response:view",
		"feedback:create",
	},
	"student": {
		"survey:view-assigned",
		"response:submit",
		"student:view-own",
	},
	"mentor": {
		"survey:view-assigned",
		"response:submit",
		"student:view-own",
		"mentee:view",
	},
}
