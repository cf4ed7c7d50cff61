package services

import (
	"context"
	"testing"

	"docvault/config"
	"docvault/models"
	"docvault/utils"
)

func newAuthFixture() (*fakeUserRepo, *fakeDepartmentRepo, AuthService) {
	config.AppConfig = &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1}}
	users := newFakeUserRepo()
	departments := newFakeDepartmentRepo()
	departments.add(models.Department{ID: 1, Name: "Engineering"})
	return users, departments, NewAuthService(users, departments)
}

func TestRegisterValidatesInput(t *testing.T) {
	_, _, service := newAuthFixture()

	_, err := service.Register(context.Background(), RegisterInput{Username: "ab", Password: "long-enough"})
	if KindOf(err) != KindInvalid {
		t.Fatalf("expected invalid for short username, got %v", err)
	}

	_, err = service.Register(context.Background(), RegisterInput{Username: "alice", Password: "short"})
	if KindOf(err) != KindInvalid {
		t.Fatalf("expected invalid for short password, got %v", err)
	}
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	users, _, service := newAuthFixture()

	user, err := service.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "correct horse", DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != models.RoleMember {
		t.Fatalf("expected member role by default, got %s", user.Role)
	}

	stored := users.users[user.ID]
	if stored.Password == "correct horse" {
		t.Fatalf("password must not be stored in plain text")
	}
	if !utils.CheckPassword("correct horse", stored.Password) {
		t.Fatalf("stored hash must verify against the original password")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	users, _, service := newAuthFixture()
	users.add(models.User{Username: "alice", Password: "x"})

	_, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "long-enough"})
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsUnknownOrInactiveDepartment(t *testing.T) {
	_, departments, service := newAuthFixture()

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "long-enough", DepartmentID: uintPtr(9),
	})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}

	inactive := false
	departments.departments[1] = models.Department{ID: 1, Name: "Engineering", IsActive: &inactive}
	_, err = service.Register(context.Background(), RegisterInput{
		Username: "alice", Password: "long-enough", DepartmentID: uintPtr(1),
	})
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict for deactivated department, got %v", err)
	}
}

func TestLoginIssuesTokenWithRole(t *testing.T) {
	_, _, service := newAuthFixture()
	if _, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "correct horse"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Token == "" {
		t.Fatalf("expected a token")
	}

	claims, err := utils.ParseToken(out.Token)
	if err != nil {
		t.Fatalf("token must parse: %v", err)
	}
	if claims.UserID != out.User.ID || claims.Role != models.RoleMember {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, _, service := newAuthFixture()
	if _, err := service.Register(context.Background(), RegisterInput{Username: "alice", Password: "correct horse"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"})
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != 401 {
		t.Fatalf("expected 401, got %v", err)
	}

	// unknown users answer identically to a wrong password
	_, err = service.Login(context.Background(), LoginInput{Username: "nobody", Password: "wrong"})
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != 401 {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	users, _, service := newAuthFixture()
	stored := users.add(models.User{Username: "alice", DisplayName: "Alice", Role: models.RoleAdmin})

	profile, err := service.GetProfile(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Username != "alice" || profile.Role != models.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := service.GetProfile(context.Background(), 999); KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
