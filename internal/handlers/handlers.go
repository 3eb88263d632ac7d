package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/middleware"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
)

// Uploads stores multipart files and removes them again.
type Uploads interface {
	SaveUpload(fh *multipart.FileHeader, kind storage.Kind) (string, error)
	Remove(path string) error
}

// respond writes the success envelope merged with payload.
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps err to its status. Unexpected errors are logged and
// answered with a generic message.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		log.Error("request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", middleware.RequestIDFrom(c)),
			slog.String("error", err.Error()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
		return
	}
	body := gin.H{"success": false, "message": appErr.Message}
	for k, v := range appErr.Fields {
		body[k] = v
	}
	c.AbortWithStatusJSON(apperr.Status(appErr.Kind), body)
}

// bindError turns a gin binding failure into a validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation("missing or invalid field: " + verrs[0].Field())
	}
	if errors.Is(err, io.EOF) {
		return apperr.Validation("request body is required")
	}
	return apperr.Wrap(apperr.KindValidation, "invalid request body", err)
}

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return uint(id), nil
}

func actor(c *gin.Context) services.Actor {
	id, _ := middleware.UserID(c)
	return services.Actor{ID: id, Role: middleware.Role(c)}
}

func userID(c *gin.Context) uint {
	id, _ := middleware.UserID(c)
	return id
}

// optionalUpload saves the named file when the request carries one.
func optionalUpload(c *gin.Context, files Uploads, field string, kind storage.Kind) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return files.SaveUpload(fh, kind)
}

// discardUpload drops a stored upload after the request failed.
func discardUpload(files Uploads, log *slog.Logger, path string) {
	if path == "" {
		return
	}
	if err := files.Remove(path); err != nil {
		log.Warn("failed to remove upload", slog.String("path", path), slog.String("error", err.Error()))
	}
}
