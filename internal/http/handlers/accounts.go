package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/userhub/userhub/internal/accounts"
	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/domain/user"
	"github.com/userhub/userhub/internal/http/middlewares"
)

// AccountService is the slice of the accounts service the handlers use.
// Kept as an interface so tests can fake it.
type AccountService interface {
	Register(ctx context.Context, req accounts.RegisterRequest) (string, error)
	Login(ctx context.Context, login, password string) (string, error)
	Profile(ctx context.Context, userID string) (user.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req user.UpdateProfileRequest) (user.Profile, error)
}

type AccountsHandler struct {
	svc AccountService
}

func NewAccountsHandler(svc AccountService) *AccountsHandler {
	return &AccountsHandler{svc: svc}
}

type RegisterRequest struct {
	Login     string  `json:"login" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	BirthDate *string `json:"birth_date"`
	Phone     *string `json:"phone"`
}

type LoginRequest struct {
	// no binding tags: a missing login must fall through to the same
	// generic 401 a wrong password gets
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *AccountsHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	id, err := h.svc.Register(cctx, accounts.RegisterRequest{
		Login:     req.Login,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
	})

	if err != nil {
		respondAccountError(ctx, err, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user_id": id,
	})
}

func (h *AccountsHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	token, err := h.svc.Login(cctx, req.Login, req.Password)

	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnauthorized(ctx, "Invalid login or password")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
	})
}

func (h *AccountsHandler) GetProfile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing or invalid token")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	profile, err := h.svc.Profile(cctx, userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func (h *AccountsHandler) UpdateProfile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing or invalid token")
		return
	}

	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	profile, err := h.svc.UpdateProfile(cctx, userID, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		respondAccountError(ctx, err, "Could not update profile")
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// respondAccountError maps the service's error taxonomy onto statuses
// and the contract's message strings.
func respondAccountError(ctx *gin.Context, err error, fallback string) {
	var validationErr *user.ValidationError

	switch {
	case errors.As(err, &validationErr):
		RespondBadRequest(ctx, validationErr.Reason)
	case errors.Is(err, user.ErrDuplicateLogin):
		RespondBadRequest(ctx, "Login already exists")
	case errors.Is(err, user.ErrDuplicateEmail):
		RespondBadRequest(ctx, "Email already exists")
	default:
		RespondInternal(ctx, fallback)
	}
}
