// Package upload stores user-submitted files, currently profile
// pictures. A Storage backend is either the local filesystem or an
// S3-compatible bucket; validation rejects non-image content before it
// reaches either.
package upload
