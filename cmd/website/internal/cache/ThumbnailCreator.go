package cache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/alitto/pond/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nfnt/resize"
)

const (
	thumbnailMaxSize uint = 400
)

var validExt = []string{".jpg", ".jpeg"}

type ThumbnailCreator interface {
	CreateThumbnails() error
}

type ThumbnailCreatorConfig struct {
	AwsBucket          string
	AwsRegion          string
	GalleryPhotoFolder string
	MaxCacheWorkers    int
	S3Client           s3.S3Client
	ShutdownCtx        context.Context
}

/*
ThumbnailCreatorService keeps the gallery thumbnails in S3 in step with
the originals. A thumbnail is rebuilt when it is missing or older than
its original.
*/
type ThumbnailCreatorService struct {
	awsBucket          string
	awsRegion          string
	galleryPhotoFolder string
	maxCacheWorkers    int
	s3Client           s3.S3Client
	shutdownCtx        context.Context
}

func NewThumbnailCreatorService(config ThumbnailCreatorConfig) ThumbnailCreatorService {
	if config.MaxCacheWorkers <= 0 {
		config.MaxCacheWorkers = 1
	}

	return ThumbnailCreatorService{
		awsBucket:          config.AwsBucket,
		awsRegion:          config.AwsRegion,
		galleryPhotoFolder: config.GalleryPhotoFolder,
		maxCacheWorkers:    config.MaxCacheWorkers,
		s3Client:           config.S3Client,
		shutdownCtx:        config.ShutdownCtx,
	}
}

func (c ThumbnailCreatorService) CreateThumbnails() error {
	var (
		err       error
		originals []s3.Object
		stat      *s3.ObjectMetadata
	)

	slog.Info("starting gallery thumbnail refresh...")

	if err = c.ensureBucketExists(c.awsBucket); err != nil {
		return err
	}

	if originals, err = c.listOriginals(); err != nil {
		return err
	}

	slog.Info("checking for updated gallery images...", "numImages", len(originals), "bucket", c.awsBucket)

	pool := pond.NewPool(c.maxCacheWorkers, pond.WithContext(c.shutdownCtx))

	for _, original := range originals {
		thumbnailKey := ThumbnailKey(c.galleryPhotoFolder, original.Key)

		if stat, err = c.s3Client.StatObject(c.awsBucket, thumbnailKey); err != nil {
			slog.Error("error retrieving metadata for thumbnail", "thumbnailKey", thumbnailKey, "error", err)
			continue
		}

		if stat != nil && !stat.LastModified.Before(original.LastModified) {
			continue
		}

		pool.Submit(func() {
			if err := c.createThumbnail(original.Key, thumbnailKey); err != nil {
				slog.Error("error creating gallery thumbnail", "key", original.Key, "error", err)
				return
			}

			slog.Info("updated gallery thumbnail", "thumbnailKey", thumbnailKey)
		})
	}

	_ = pool.Stop().Wait()
	return nil
}

func ThumbnailKey(galleryPhotoFolder, originalKey string) string {
	return filepath.Join(galleryPhotoFolder, "thumbnail", filepath.Base(originalKey))
}

func (c ThumbnailCreatorService) ensureBucketExists(bucketName string) error {
	var (
		err    error
		exists bool
	)

	exists, err = c.s3Client.BucketExists(bucketName)

	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", bucketName, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", bucketName)

	err = c.s3Client.CreateBucket(
		bucketName,
		createbucketoptions.WithRegion(c.awsRegion),
	)

	if err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", bucketName, err)
	}

	return nil
}

func (c ThumbnailCreatorService) listOriginals() ([]s3.Object, error) {
	var (
		err      error
		response s3.ListResponse
	)

	key := filepath.Join(c.galleryPhotoFolder, "original")

	response, err = c.s3Client.List(
		c.awsBucket,
		key,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return IsThumbnailSource(aws.ToString(obj.Key))
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("error listing gallery originals: %w", err)
	}

	return response.Objects, nil
}

// IsThumbnailSource reports whether a key names a JPEG the resizer accepts.
func IsThumbnailSource(key string) bool {
	ext := strings.ToLower(filepath.Ext(key))
	return slices.IsInSlice(ext, validExt)
}

func (c ThumbnailCreatorService) createThumbnail(originalKey, thumbnailKey string) error {
	var (
		err      error
		img      image.Image
		original s3.GetObjectResponse
		buf      bytes.Buffer
	)

	if original, err = c.s3Client.Get(c.awsBucket, originalKey); err != nil {
		return fmt.Errorf("error retrieving original image %s: %w", originalKey, err)
	}

	defer original.Body.Close()

	if img, err = resizeReader(original.Body, thumbnailMaxSize); err != nil {
		return fmt.Errorf("error resizing image: %w", err)
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("error encoding image for thumbnail: %w", err)
	}

	if _, err = c.s3Client.Put(c.awsBucket, thumbnailKey, &buf); err != nil {
		return fmt.Errorf("error uploading thumbnail to S3: %w", err)
	}

	return nil
}

func resizeReader(r io.Reader, maxSize uint) (image.Image, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return resizeImage(img, maxSize), nil
}

/*
resizeImage scales img so its longest edge is maxSize, keeping the aspect
ratio.
*/
func resizeImage(img image.Image, maxSize uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	var newWidth, newHeight uint
	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
