package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/goal-tracker/internal/persistence"
)

type userRepoStub struct {
	createErr  error
	created    User
	createdPwd string

	getUser User
	getErr  error

	updateErr  error
	updated    User
	updatedPwd string

	deleteErr error
	deletedID string

	list    []User
	listErr error
}

func (r *userRepoStub) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	if r.createErr != nil {
		return User{}, r.createErr
	}
	r.created = user
	r.createdPwd = passwordHash
	return user, nil
}

func (r *userRepoStub) GetUser(ctx context.Context, id string) (User, error) {
	if r.getErr != nil {
		return User{}, r.getErr
	}
	if r.getUser.ID == "" {
		return User{}, persistence.ErrNotFound
	}
	return r.getUser, nil
}

func (r *userRepoStub) UpdateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	if r.updateErr != nil {
		return User{}, r.updateErr
	}
	r.updated = user
	r.updatedPwd = passwordHash
	return user, nil
}

func (r *userRepoStub) DeleteUser(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

func (r *userRepoStub) ListUsers(ctx context.Context) ([]User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]User, len(r.list))
	copy(out, r.list)
	return out, nil
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("registers a new account with a hashed password", func(t *testing.T) {
		repo := &userRepoStub{}
		svc := NewUserService(repo, func() string { return "user-1" }, fixedNow, nil)

		user, err := svc.CreateUser(context.Background(), CreateUserParams{
			Input: UserInput{
				Email:       "  Member@Example.COM ",
				DisplayName: "Member",
				Password:    "long enough secret",
			},
		})
		if err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
		if user.Email != "member@example.com" {
			t.Fatalf("expected normalized email, got %q", user.Email)
		}
		if repo.createdPwd == "" || repo.createdPwd == "long enough secret" {
			t.Fatalf("expected stored hash, got %q", repo.createdPwd)
		}
		if err := VerifyPassword(repo.createdPwd, "long enough secret"); err != nil {
			t.Fatalf("stored hash does not verify: %v", err)
		}
	})

	t.Run("only admins may grant the admin flag", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, nil, nil, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: Principal{UserID: "user-1"},
			Input: UserInput{
				Email:       "boss@example.com",
				DisplayName: "Boss",
				Password:    "long enough secret",
				IsAdmin:     true,
			},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("validates email, display name, and password", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, nil, nil, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Input: UserInput{Email: "not-an-email", DisplayName: "  ", Password: "short"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"email", "display_name", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("translates duplicate emails", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{createErr: persistence.ErrDuplicate}, nil, nil, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Input: UserInput{Email: "dup@example.com", DisplayName: "Dup", Password: "long enough secret"},
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	existing := User{ID: "user-1", Email: "member@example.com", DisplayName: "Member"}

	t.Run("keeps the password when none is supplied", func(t *testing.T) {
		repo := &userRepoStub{getUser: existing}
		svc := NewUserService(repo, nil, fixedNow, nil)

		_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "user-1"},
			UserID:    "user-1",
			Input:     UserInput{Email: "member@example.com", DisplayName: "Renamed"},
		})
		if err != nil {
			t.Fatalf("UpdateUser returned error: %v", err)
		}
		if repo.updatedPwd != "" {
			t.Fatalf("expected empty password hash passthrough, got %q", repo.updatedPwd)
		}
		if repo.updated.DisplayName != "Renamed" {
			t.Fatalf("expected rename, got %+v", repo.updated)
		}
	})

	t.Run("users may not edit other accounts", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{getUser: existing}, nil, nil, nil)

		_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "user-2"},
			UserID:    "user-1",
			Input:     UserInput{Email: "member@example.com", DisplayName: "Hijack"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("users may not self-promote", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{getUser: existing}, nil, nil, nil)

		_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "user-1"},
			UserID:    "user-1",
			Input:     UserInput{Email: "member@example.com", DisplayName: "Member", IsAdmin: true},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserService_ListUsers(t *testing.T) {
	t.Run("admin listing is sorted by display name", func(t *testing.T) {
		repo := &userRepoStub{list: []User{
			{ID: "user-2", DisplayName: "Zoe"},
			{ID: "user-1", DisplayName: "Ada"},
		}}
		svc := NewUserService(repo, nil, nil, nil)

		users, err := svc.ListUsers(context.Background(), Principal{UserID: "admin", IsAdmin: true})
		if err != nil {
			t.Fatalf("ListUsers returned error: %v", err)
		}
		if len(users) != 2 || users[0].DisplayName != "Ada" || users[1].DisplayName != "Zoe" {
			t.Fatalf("unexpected ordering: %+v", users)
		}
	})

	t.Run("non-admins may not list users", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, nil, nil, nil)

		_, err := svc.ListUsers(context.Background(), Principal{UserID: "user-1"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	existing := User{ID: "user-1", Email: "member@example.com", DisplayName: "Member"}

	t.Run("users may delete their own account", func(t *testing.T) {
		repo := &userRepoStub{getUser: existing}
		svc := NewUserService(repo, nil, nil, nil)

		if err := svc.DeleteUser(context.Background(), Principal{UserID: "user-1"}, "user-1"); err != nil {
			t.Fatalf("DeleteUser returned error: %v", err)
		}
		if repo.deletedID != "user-1" {
			t.Fatalf("expected delete of user-1, got %q", repo.deletedID)
		}
	})

	t.Run("non-admins may not delete others", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{getUser: existing}, nil, nil, nil)

		err := svc.DeleteUser(context.Background(), Principal{UserID: "user-2"}, "user-1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}
