package constants

import "time"

// Decision thresholds tuned for Facenet512-style embeddings compared with
// cosine similarity. Effective thresholds are these minus the variation
// adjustment for the call.
var APPROVE_THRESHOLD float64 = 0.40
var REVIEW_THRESHOLD float64 = 0.30

// An approve whose holistic confidence falls below this is downgraded to
// manual review regardless of raw similarity.
var MIN_CONFIDENCE_THRESHOLD float64 = 0.30

// The aggregate threshold relaxation never exceeds this. The liveness penalty
// is allowed to push the aggregate below zero.
var MAX_THRESHOLD_ADJUSTMENT float64 = 0.10

// Embedding cache
var EMBEDDING_CACHE_SIZE int = 128

// Embedding provider retry policy
var EMBEDDING_MAX_ATTEMPTS int = 3
var EMBEDDING_RETRY_BACKOFF = 200 * time.Millisecond

// Image validation limits
var MAX_IMAGE_SIZE_BYTES int = 10 * 1024 * 1024
var MIN_IMAGE_RESOLUTION int = 64
var MAX_IMAGE_RESOLUTION int = 8000

// Gallery lookups scan at most this many previously approved captures.
var GALLERY_SCAN_LIMIT int64 = 5

var MAX_USER_ID_LENGTH int = 50

var SUPPORT_EMAIL = "help@verifid.io"
