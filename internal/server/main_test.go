package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkup/internal/config"
	"linkup/internal/models"
	"linkup/internal/repository"
	"linkup/internal/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against an in-memory SQLite database and
// registers the real route table. The Server is assembled by hand rather
// than through NewServerWithDeps so repeated tests do not re-register
// Prometheus collectors on the default registry.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Friendship{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "handler-test-secret",
		UploadDir: t.TempDir(),
		Port:      "0",
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		friendRepo:  friendRepo,
	}
	s.userService = service.NewUserService(userRepo)
	s.friendService = service.NewFriendService(friendRepo, userRepo)
	s.postService = service.NewPostService(postRepo, friendRepo, userRepo)
	s.commentService = service.NewCommentService(commentRepo, postRepo)
	s.uploadService = service.NewUploadService(cfg)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

// seedUser persists a user with a bcrypt-hashed password and returns it
// alongside a valid bearer token for the account.
func seedUser(t *testing.T, s *Server, db *gorm.DB, name string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Str0ngPassw0rd!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Username: name,
		Email:    name + "@example.com",
		Password: string(hashed),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}

	token, err := s.generateToken(u.ID, u.Username)
	if err != nil {
		t.Fatalf("generate token for %s: %v", name, err)
	}
	return u, token
}

// doRequest performs a JSON request against the test app and returns the
// raw response. An empty token omits the Authorization header.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// decodeBody parses the JSON response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

// bodyList extracts a JSON array field from a decoded response body.
func bodyList(t *testing.T, body map[string]any, key string) []any {
	t.Helper()
	raw, ok := body[key]
	if !ok {
		t.Fatalf("response missing %q field: %v", key, body)
	}
	list, ok := raw.([]any)
	if !ok {
		t.Fatalf("response field %q is not a list: %T", key, raw)
	}
	return list
}

func userPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/users/%d%s", id, suffix)
}

func postPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/posts/%d%s", id, suffix)
}

func userFeedPath(id uint) string {
	return fmt.Sprintf("/api/posts/feed/%d", id)
}

func userPostsPath(id uint) string {
	return fmt.Sprintf("/api/posts/user/%d", id)
}
