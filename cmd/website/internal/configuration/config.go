package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AdminEmail          string `flag:"adminemail" env:"ADMIN_EMAIL" default:"" description:"Email of the admin principal created on startup when missing"`
	AdminPassword       string `flag:"adminpassword" env:"ADMIN_PASSWORD" default:"" description:"Password of the admin principal created on startup"`
	AwsEndpointUrl      string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion           string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId      string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey  string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket           string `flag:"awsbucket" env:"AWS_BUCKET" default:"heroportal" description:"S3 bucket"`
	CookieSecret        string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DefaultLandingPath  string `flag:"landing" env:"DEFAULT_LANDING_PATH" default:"/dashboard" description:"Where authenticated principals without the required role are sent"`
	DSN                 string `flag:"dsn" env:"DSN" default:"file:./data/heroportal.db" description:"Data source name"`
	GalleryPhotoFolder  string `flag:"gpf" env:"GALLERY_PHOTO_FOLDER" default:"gallery" description:"S3 folder for home page gallery photos"`
	HeroImageSrc        string `flag:"heroimage" env:"HERO_IMAGE_SRC" default:"/static/images/hero.jpg" description:"Source of the home page hero image. Local paths need .webp and .avif siblings"`
	HeroVideoKey        string `flag:"herovideo" env:"HERO_VIDEO_KEY" default:"site/hero-video.mp4" description:"S3 key of the background video served at /hero-video.mp4"`
	Host                string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	ImageCDNBaseURL     string `flag:"cdn" env:"IMAGE_CDN_BASE_URL" default:"" description:"Base URL of an image CDN with an /upload/ path. When empty, gallery images are served from S3"`
	LogLevel            string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxCacheWorkers     int    `flag:"mcc" env:"MAX_CACHE_WORKERS" default:"20" description:"Maximum number of concurrent cache workers"`
	SessionRetryAfter   int    `flag:"retryafter" env:"SESSION_RETRY_AFTER" default:"2" description:"Seconds a client waits before retrying while sessions are loading"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
