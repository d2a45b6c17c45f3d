package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/SanjayNarukulla/swift-backend/application/ports"
	"github.com/SanjayNarukulla/swift-backend/domain/core/entities"
	appErrors "github.com/SanjayNarukulla/swift-backend/pkg/errors"
	"github.com/SanjayNarukulla/swift-backend/pkg/utils"

	"go.uber.org/zap"
)

// Client-facing messages
const (
	MsgInvalidUserID   = "Invalid User ID"
	MsgUserNotFound    = "User not found"
	MsgNoUsersToDelete = "No users found to delete"
	MsgUserExists      = "User already exists"
	MsgInvalidBody     = "Invalid request body."
	MsgInvalidID       = "User ID is required and must be a number."
	MsgNameRequired    = "User name is required."
	MsgUsernameReq     = "Username is required."
	MsgInvalidEmail    = "Invalid email format."
)

// UserService implements the user resource operations
type UserService struct {
	stores ports.StoreProvider
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(stores ports.StoreProvider, logger *zap.Logger) *UserService {
	return &UserService{
		stores: stores,
		logger: logger,
	}
}

// ParseUserID reads a user id from a path segment. Leading digits are taken
// the way a lenient integer parse would ("12abc" is 12); anything that does
// not yield a positive integer is rejected.
func ParseUserID(segment string) (int, error) {
	s := strings.TrimLeftFunc(segment, unicode.IsSpace)
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	id, err := strconv.Atoi(s[:end])
	if err != nil || id <= 0 {
		return 0, appErrors.NewValidationError(MsgInvalidUserID).WithField("id")
	}
	return id, nil
}

// GetUserWithPosts returns the user joined with its posts, each post joined
// with its comments. Comments are fetched in one batched lookup.
func (s *UserService) GetUserWithPosts(ctx context.Context, id int) (*entities.UserWithPosts, error) {
	store, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	var user entities.User
	if err := store.Collection(entities.UsersCollection).FindOne(ctx, ports.Eq("id", id), &user); err != nil {
		if errors.Is(err, ports.ErrNoDocuments) {
			return nil, appErrors.NewNotFoundError(MsgUserNotFound)
		}
		return nil, appErrors.NewDatabaseError("find user", err)
	}

	var posts []entities.Post
	if err := store.Collection(entities.PostsCollection).Find(ctx, ports.Eq("userId", user.ID), &posts); err != nil {
		return nil, appErrors.NewDatabaseError("find posts", err)
	}

	var comments []entities.Comment
	if len(posts) > 0 {
		filter := ports.In("postId", entities.PostIDs(posts)...)
		if err := store.Collection(entities.CommentsCollection).Find(ctx, filter, &comments); err != nil {
			return nil, appErrors.NewDatabaseError("find comments", err)
		}
	}

	s.logger.Debug("Fetched user with posts",
		zap.Int("user_id", user.ID),
		zap.Int("posts", len(posts)),
		zap.Int("comments", len(comments)))

	return &entities.UserWithPosts{
		User:  user,
		Posts: entities.AttachComments(posts, comments),
	}, nil
}

// DeleteUser removes one user. Posts and comments that reference it are
// left in place.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	store, err := s.connect(ctx)
	if err != nil {
		return err
	}

	deleted, err := store.Collection(entities.UsersCollection).DeleteOne(ctx, ports.Eq("id", id))
	if err != nil {
		return appErrors.NewDatabaseError("delete user", err)
	}
	if deleted == 0 {
		return appErrors.NewNotFoundError(MsgUserNotFound)
	}

	s.logger.Info("User deleted", zap.Int("user_id", id))
	return nil
}

// DeleteAllUsers empties the users collection
func (s *UserService) DeleteAllUsers(ctx context.Context) error {
	store, err := s.connect(ctx)
	if err != nil {
		return err
	}

	deleted, err := store.Collection(entities.UsersCollection).DeleteMany(ctx, ports.All())
	if err != nil {
		return appErrors.NewDatabaseError("delete users", err)
	}
	if deleted == 0 {
		return appErrors.NewNotFoundError(MsgNoUsersToDelete).AsMessage()
	}

	s.logger.Info("All users deleted", zap.Int64("count", deleted))
	return nil
}

// CreateUser validates a decoded request body and stores the user it
// describes. Numbers in payload may be float64 or json.Number. Only the eight
// schema fields are stored; anything else in the body is dropped.
func (s *UserService) CreateUser(ctx context.Context, payload any) (*entities.User, error) {
	user, err := userFromPayload(payload)
	if err != nil {
		return nil, err
	}

	store, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	users := store.Collection(entities.UsersCollection)

	var existing entities.User
	err = users.FindOne(ctx, ports.Eq("email", user.Email), &existing)
	switch {
	case err == nil:
		return nil, appErrors.NewConflictError(MsgUserExists).WithField("email")
	case !errors.Is(err, ports.ErrNoDocuments):
		return nil, appErrors.NewDatabaseError("find user by email", err)
	}

	if err := users.InsertOne(ctx, user); err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return nil, appErrors.NewConflictError(MsgUserExists).WithField("id").WithCause(err)
		}
		return nil, appErrors.NewDatabaseError("insert user", err)
	}

	s.logger.Info("User created", zap.Int("user_id", user.ID))
	return user, nil
}

func (s *UserService) connect(ctx context.Context) (ports.Store, error) {
	store, err := s.stores.Connect(ctx)
	if err != nil {
		return nil, appErrors.NewDatabaseError("connect", err)
	}
	return store, nil
}

// CreateUserRequest is the typed create-user payload. Only these fields are
// stored.
type CreateUserRequest struct {
	ID       int               `json:"id" validate:"required"`
	Name     string            `json:"name" validate:"required"`
	Username string            `json:"username" validate:"required"`
	Email    string            `json:"email" validate:"required,useremail"`
	Address  *entities.Address `json:"address"`
	Phone    *string           `json:"phone"`
	Website  *string           `json:"website"`
	Company  *entities.Company `json:"company"`
}

// User converts the request into the stored user
func (r *CreateUserRequest) User() *entities.User {
	return &entities.User{
		ID:       r.ID,
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Address:  r.Address,
		Phone:    r.Phone,
		Website:  r.Website,
		Company:  r.Company,
	}
}

// userFromPayload runs the create checks in order and stops at the first
// failure. The ordered checks decide the message; the typed request is then
// decoded and validated as a whole.
func userFromPayload(payload any) (*entities.User, error) {
	var body map[string]any
	switch v := payload.(type) {
	case map[string]any:
		body = v
	case []any:
		// an array is an object without an id
		return nil, appErrors.NewValidationError(MsgInvalidID).WithField("id")
	}
	if body == nil {
		return nil, appErrors.NewValidationError(MsgInvalidBody)
	}

	id, ok := integerField(body["id"])
	if !ok || utils.ValidateVar(id, "required") != nil {
		return nil, appErrors.NewValidationError(MsgInvalidID).WithField("id")
	}

	name, _ := body["name"].(string)
	if utils.ValidateVar(name, "required") != nil {
		return nil, appErrors.NewValidationError(MsgNameRequired).WithField("name")
	}

	username, _ := body["username"].(string)
	if utils.ValidateVar(username, "required") != nil {
		return nil, appErrors.NewValidationError(MsgUsernameReq).WithField("username")
	}

	email, _ := body["email"].(string)
	if utils.ValidateVar(email, "required,useremail") != nil {
		return nil, appErrors.NewValidationError(MsgInvalidEmail).WithField("email")
	}

	req, err := decodeCreateRequest(body)
	if err != nil {
		return nil, err
	}
	req.ID = id

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(MsgInvalidBody).WithCause(err)
	}

	return req.User(), nil
}

// decodeCreateRequest decodes everything but the id, which integerField has
// already read. Fields that do not fit the schema types are rejected with the
// offending field name.
func decodeCreateRequest(body map[string]any) (*CreateUserRequest, error) {
	rest := make(map[string]any, len(body))
	for k, v := range body {
		if k != "id" {
			rest[k] = v
		}
	}
	raw, err := json.Marshal(rest)
	if err != nil {
		return nil, appErrors.NewValidationError(MsgInvalidBody).WithCause(err)
	}

	var req CreateUserRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		invalid := appErrors.NewValidationError(MsgInvalidBody).WithCause(err)
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			invalid = invalid.WithField(typeErr.Field)
		}
		return nil, invalid
	}
	return &req, nil
}

// integerField accepts a JSON number holding an integral value
func integerField(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		return n, true
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
