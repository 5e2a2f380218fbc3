// Copyright 2026 The Quarters Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rbac

// Organization-scoped member roles. Stored verbatim in org_member_roles.role;
// changing a value requires a data migration.
const (
	// RolePlatformAdmin grants platform-wide administrative privileges
	// (org_id = NULL on the assignment).
	RolePlatformAdmin = "platform_admin"

	// RoleOrgAdmin grants full administrative privileges within an organization.
	RoleOrgAdmin = "org_admin"

	// RoleOrgStaff grants day-to-day management: residents, leases, billing.
	RoleOrgStaff = "org_staff"

	// RoleBuildingManager grants building and unit management.
	RoleBuildingManager = "building_manager"

	// RoleTechnician grants work-order execution.
	RoleTechnician = "technician"

	// RoleSecurity grants front-desk records: visitors, vehicles, violations.
	RoleSecurity = "security"

	// RoleResident grants read access to the resident's own leases and invoices.
	RoleResident = "resident"
)

// Valid reports whether role is a known member role.
func Valid(role string) bool {
	switch role {
	case RolePlatformAdmin, RoleOrgAdmin, RoleOrgStaff, RoleBuildingManager,
		RoleTechnician, RoleSecurity, RoleResident:
		return true
	}
	return false
}
