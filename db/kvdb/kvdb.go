package kvdb

const (
	// RequestsBucket maps a build request ID to its progress percentage.
	RequestsBucket = "requests"
	// BuildsBucket maps a build request ID, and LatestBuildKey, to a BuildRecord.
	BuildsBucket = "builds"

	LatestBuildKey = "latest"
)

var buckets = []string{RequestsBucket, BuildsBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	Close() error
}
