package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/auth"
	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
	"github.com/adanyl0v/taskflow/internal/validation"
)

const tokenCookie = "token"

type getMeResponse struct {
	Name          string                    `json:"name"`
	Username      string                    `json:"username"`
	Email         string                    `json:"email"`
	Projects      []getProjectTasksResponse `json:"projects"`
	AssignedTasks []getTaskResponse         `json:"assignedTasks"`
}

type countResponse struct {
	Projects int64 `json:"projects"`
}

type getUserResponse struct {
	Name          string            `json:"name"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	Count         countResponse     `json:"_count"`
	AssignedTasks []getTaskResponse `json:"assignedTasks"`
}

func (h *handlerImpl) handleSignUp(c *gin.Context) error {
	values, err := h.validateBody(c, validation.SignupSchema, nil)
	if err != nil {
		return err
	}
	name := values.String("name")
	username := values.String("username")
	email := values.String("email")

	exists, err := h.users.UserExists(c.Request.Context(), email, username)
	if err != nil {
		return err
	}
	if exists {
		h.logger.Info().
			Str("username", username).
			Msg("user already exists")
		return newBadRequestError(msgUserAlreadyExists)
	}

	hash, err := h.hasher.Hash(values.String("password"))
	if err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.Request.Context(), services.CreateUserParams{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			return newBadRequestError(msgUserAlreadyExists)
		}
		return err
	}

	if err = h.issueTokenCookie(c, user); err != nil {
		return err
	}

	h.logger.Info().
		Str("user_id", user.ID).
		Msg("signed up")
	respond(c, http.StatusCreated, "User created successfully", nil)
	return nil
}

func (h *handlerImpl) handleSignIn(c *gin.Context) error {
	values, err := h.validateBody(c, validation.SigninSchema, nil)
	if err != nil {
		return err
	}
	password := values.String("password")

	user, err := h.users.GetUserByEmail(c.Request.Context(), values.String("email"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return newNotFoundError(msgUserNotFound)
		}
		return err
	}

	ok, err := h.hasher.Verify(password, user.Password)
	if err != nil {
		return err
	}
	if !ok {
		h.logger.Info().
			Str("user_id", user.ID).
			Msg("password mismatch")
		return newBadRequestError(msgIncorrectPassword)
	}

	if h.hasher.NeedsRehash(user.Password) {
		h.rehashPassword(c, user.ID, password)
	}

	if err = h.issueTokenCookie(c, user); err != nil {
		return err
	}

	h.logger.Info().
		Str("user_id", user.ID).
		Msg("signed in")
	respond(c, http.StatusCreated, "Sign-in successfully", nil)
	return nil
}

// rehashPassword upgrades a legacy hash. Failing to do so never blocks the
// sign-in, as the old hash still verifies.
func (h *handlerImpl) rehashPassword(c *gin.Context, userID, password string) {
	hash, err := h.hasher.Hash(password)
	if err == nil {
		err = h.users.UpdateUserPassword(c.Request.Context(), userID, hash)
	}
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to rehash legacy password")
		return
	}
	h.logger.Info().
		Str("user_id", userID).
		Msg("rehashed legacy password")
}

func (h *handlerImpl) handleSignOut(c *gin.Context) error {
	h.clearTokenCookie(c)
	respond(c, http.StatusOK, "Sign-out successfully", nil)
	return nil
}

func (h *handlerImpl) handleGetMe(c *gin.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.GetProjectsByOwnerID(c.Request.Context(), identity.ID)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.GetTasksByAssignee(c.Request.Context(), identity.ID)
	if err != nil {
		return err
	}

	respond(c, http.StatusOK, "User info fetched successfully", getMeResponse{
		Name:          identity.Name,
		Username:      identity.Username,
		Email:         identity.Email,
		Projects:      newGetProjectTasksResponses(projects),
		AssignedTasks: newGetTaskResponses(tasks),
	})
	return nil
}

func (h *handlerImpl) handleGetUser(c *gin.Context) error {
	id := c.Param("id")

	user, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return newNotFoundError(msgUserNotFound)
		}
		return err
	}

	count, err := h.projects.CountProjectsByOwnerID(c.Request.Context(), user.ID)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.GetTasksByAssignee(c.Request.Context(), user.ID)
	if err != nil {
		return err
	}

	respond(c, http.StatusOK, "User info fetched successfully", getUserResponse{
		Name:          user.Name,
		Username:      user.Username,
		Email:         user.Email,
		Count:         countResponse{Projects: count},
		AssignedTasks: newGetTaskResponses(tasks),
	})
	return nil
}

func (h *handlerImpl) issueTokenCookie(c *gin.Context, user *models.User) error {
	token, _, err := h.tokens.Issue(auth.Identity{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return err
	}

	const httpOnly = true
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(h.tokens.TTL().Seconds()),
		"/", "", h.cookieSecure, httpOnly)
	return nil
}

func (h *handlerImpl) clearTokenCookie(c *gin.Context) {
	const httpOnly = true
	c.SetCookie(tokenCookie, "", -1,
		"/", "", h.cookieSecure, httpOnly)
}
