package repository

import (
	"sync"

	"verifid.io/entities"
	"verifid.io/infrastructure/database/connection/datastore"
	"verifid.io/infrastructure/database/repository/mongo"
)

var galleryImageOnce = sync.Once{}

var galleryImageRepository mongo.MongoRepository[entities.GalleryImage]

func GalleryImageRepo() *mongo.MongoRepository[entities.GalleryImage] {
	galleryImageOnce.Do(func() {
		galleryImageRepository = mongo.MongoRepository[entities.GalleryImage]{Model: datastore.GalleryImageModel}
	})
	return &galleryImageRepository
}
