package gallery

import (
	"go.mongodb.org/mongo-driver/bson"

	"verifid.io/application/constants"
	"verifid.io/application/repository"
	"verifid.io/application/utils"
	"verifid.io/entities"
	mongo_repo "verifid.io/infrastructure/database/repository/mongo"
	"verifid.io/infrastructure/logger"
)

// RecentImages returns the user's most recent approved captures, newest
// first. A lookup failure returns an empty gallery; verification proceeds
// against the reference image alone.
func RecentImages(userID string) [][]byte {
	var sort interface{} = bson.M{"createdAt": -1}
	results, err := repository.GalleryImageRepo().FindMany(bson.M{"userID": userID}, &mongo_repo.FindOptions{
		Sort:  &sort,
		Limit: utils.GetInt64Pointer(constants.GALLERY_SCAN_LIMIT),
	})
	if err != nil {
		logger.Warning("gallery lookup failed, continuing without gallery", logger.LoggerOptions{
			Key:  "userID",
			Data: userID,
		})
		return nil
	}
	images := make([][]byte, 0, len(*results))
	for _, capture := range *results {
		images = append(images, capture.Image)
	}
	return images
}

// SaveApproved stores an approved live capture as future match evidence.
func SaveApproved(userID string, image []byte) {
	_, err := repository.GalleryImageRepo().CreateOne(entities.GalleryImage{
		UserID: userID,
		Image:  image,
	})
	if err != nil {
		logger.Error("failed to save approved capture to gallery", logger.LoggerOptions{
			Key:  "userID",
			Data: userID,
		})
	}
}
