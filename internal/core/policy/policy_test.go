package policy

import "testing"

func TestAuthorize_Matrix(t *testing.T) {
	cases := []struct {
		role Role
		op   Operation
		res  Resource
		want Decision
	}{
		// list credentials: every role, metadata only by construction
		{RoleAdmin, OpList, ResourceCredential, Allow},
		{RoleManager, OpList, ResourceCredential, Allow},
		{RoleStandard, OpList, ResourceCredential, Allow},

		// read credential secret
		{RoleAdmin, OpReadSecret, ResourceCredential, AllowWithSecret},
		{RoleManager, OpReadSecret, ResourceCredential, AllowMetadataOnly},
		{RoleStandard, OpReadSecret, ResourceCredential, AllowMetadataOnly},

		// credential mutations: admin only
		{RoleAdmin, OpCreate, ResourceCredential, Allow},
		{RoleAdmin, OpUpdate, ResourceCredential, Allow},
		{RoleAdmin, OpDelete, ResourceCredential, Allow},
		{RoleManager, OpCreate, ResourceCredential, Deny},
		{RoleManager, OpUpdate, ResourceCredential, Deny},
		{RoleManager, OpDelete, ResourceCredential, Deny},
		{RoleStandard, OpCreate, ResourceCredential, Deny},
		{RoleStandard, OpUpdate, ResourceCredential, Deny},
		{RoleStandard, OpDelete, ResourceCredential, Deny},

		// locations: everyone lists, admin mutates
		{RoleStandard, OpList, ResourceLocation, Allow},
		{RoleManager, OpList, ResourceLocation, Allow},
		{RoleAdmin, OpCreate, ResourceLocation, Allow},
		{RoleAdmin, OpUpdate, ResourceLocation, Allow},
		{RoleAdmin, OpDelete, ResourceLocation, Allow},
		{RoleManager, OpCreate, ResourceLocation, Deny},
		{RoleManager, OpDelete, ResourceLocation, Deny},
		{RoleStandard, OpUpdate, ResourceLocation, Deny},
		{RoleStandard, OpDelete, ResourceLocation, Deny},

		// user management: admin only
		{RoleAdmin, OpManageUsers, ResourceUser, Allow},
		{RoleAdmin, OpCreate, ResourceUser, Allow},
		{RoleAdmin, OpDelete, ResourceUser, Allow},
		{RoleAdmin, OpDeactivate, ResourceUser, Allow},
		{RoleManager, OpManageUsers, ResourceUser, Deny},
		{RoleManager, OpDeactivate, ResourceUser, Deny},
		{RoleStandard, OpManageUsers, ResourceUser, Deny},
		{RoleStandard, OpDelete, ResourceUser, Deny},
	}

	for _, tc := range cases {
		if got := Authorize(tc.role, tc.op, tc.res); got != tc.want {
			t.Errorf("Authorize(%s, %s, %s) = %s, want %s", tc.role, tc.op, tc.res, got, tc.want)
		}
	}
}

func TestAuthorize_UnknownRoleIsStandard(t *testing.T) {
	if got := Authorize("administrador", OpDelete, ResourceCredential); got != Deny {
		t.Fatalf("unknown role delete = %s, want deny", got)
	}
	if got := Authorize("", OpReadSecret, ResourceCredential); got != AllowMetadataOnly {
		t.Fatalf("unknown role read-secret = %s, want allow-metadata-only", got)
	}
	if got := Authorize("superuser", OpList, ResourceCredential); got != Allow {
		t.Fatalf("unknown role list = %s, want allow", got)
	}
}

func TestAuthorize_UnknownOperationDenies(t *testing.T) {
	if got := Authorize(RoleAdmin, Operation("export"), ResourceCredential); got != Deny {
		t.Fatalf("unknown operation = %s, want deny", got)
	}
	if got := Authorize(RoleAdmin, OpList, Resource("report")); got != Deny {
		t.Fatalf("unknown resource = %s, want deny", got)
	}
	// manage-users only exists on the user resource
	if got := Authorize(RoleAdmin, OpManageUsers, ResourceCredential); got != Deny {
		t.Fatalf("manage-users on credential = %s, want deny", got)
	}
}

func TestDeniesSelf(t *testing.T) {
	for _, op := range []Operation{OpDelete, OpDeactivate} {
		if !DeniesSelf(op, "42", "42") {
			t.Errorf("%s on own account should be denied", op)
		}
		if DeniesSelf(op, "42", "7") {
			t.Errorf("%s on another account should pass the self check", op)
		}
	}
	if DeniesSelf(OpUpdate, "42", "42") {
		t.Fatalf("self update should pass the self check")
	}
	if DeniesSelf(OpDelete, "", "") {
		t.Fatalf("empty principal id must not match")
	}
}

func TestDecision_Granted(t *testing.T) {
	if Deny.Granted() {
		t.Fatalf("deny must not grant")
	}
	for _, d := range []Decision{AllowMetadataOnly, Allow, AllowWithSecret} {
		if !d.Granted() {
			t.Errorf("%s should grant", d)
		}
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole("manager"); !ok || role != RoleManager {
		t.Fatalf("ParseRole(manager) = %s, %v", role, ok)
	}
	if role, ok := ParseRole("administrador"); ok || role != RoleStandard {
		t.Fatalf("ParseRole(administrador) = %s, %v; want standard,false", role, ok)
	}
}
