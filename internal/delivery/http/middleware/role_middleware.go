package middleware

import (
	"net/http"
	"slices"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/response"
)

// RequireRole lets the request through when the authenticated caller holds
// one of roleIDs. It must run after Authenticate.
func RequireRole(roleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}
			if !slices.Contains(roleIDs, roleID) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	staffRoles          = []int{entity.RoleIDAdmin, entity.RoleIDSecretary}
	staffOrDoctorRoles  = []int{entity.RoleIDAdmin, entity.RoleIDSecretary, entity.RoleIDDoctor}
	staffOrPatientRoles = []int{entity.RoleIDAdmin, entity.RoleIDSecretary, entity.RoleIDPatient}
)

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}

func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(staffRoles...)(next)
}

// RequireStaffOrDoctor guards routes a doctor may call about their own rows;
// ownership itself is checked in the usecases.
func RequireStaffOrDoctor(next http.Handler) http.Handler {
	return RequireRole(staffOrDoctorRoles...)(next)
}

func RequireStaffOrPatient(next http.Handler) http.Handler {
	return RequireRole(staffOrPatientRoles...)(next)
}
