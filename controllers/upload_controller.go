package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fcode/course-platform-backend/utils"
)

var uploadFolders = map[string]bool{
	"thumbnails": true,
	"avatars":    true,
	"images":     true,
}

type UploadController struct {
	images utils.ImageStore
}

// NewUploadController accepts a nil store; uploads then answer 503.
func NewUploadController(images utils.ImageStore) *UploadController {
	return &UploadController{images: images}
}

func (ctl *UploadController) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	folder := c.DefaultPostForm("folder", "images")
	if !uploadFolders[folder] {
		badRequest(c, "Invalid folder")
		return
	}
	if ctl.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": utils.ErrStorageDisabled.Error()})
		return
	}

	url, err := ctl.images.UploadImage(fileHeader, folder)
	switch {
	case errors.Is(err, utils.ErrUnsupportedImage), errors.Is(err, utils.ErrImageTooLarge):
		badRequest(c, err.Error())
		return
	case errors.Is(err, utils.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
		return
	case err != nil:
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
