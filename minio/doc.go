// Package minio implements storage.Provider on a MinIO or S3-compatible
// bucket.
//
// A container at path [s1, ..., sn] is the key prefix "prefix/s1/.../sn/" and
// its files are the objects directly below that prefix. CreateIfNotExists
// writes a zero-byte marker object for the container and each of its
// ancestors, so empty containers survive. A prefix that holds objects but no
// marker, as written by other tools, still counts as an existing container.
//
//	p, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    Bucket:    "app",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	c, err := p.Container(storage.MustPath("users", "42"))
//
// Writers buffer up to Config.MultipartThreshold bytes and upload on Close;
// larger objects are streamed. With overwrite=false the upload is conditional
// on the key not existing, so of two concurrent creators exactly one wins.
//
// Client errors are translated into the storage error taxonomy: NoSuchKey and
// NoSuchBucket become CodeItemNotFound, a failed precondition becomes
// CodeStorage wrapping fs.ErrExist, and throttling or network timeouts are
// classified as retryable.
package minio
