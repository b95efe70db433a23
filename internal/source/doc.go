// Package source reads and writes the tool's inputs and outputs by URI.
//
// Supported locations:
//
//	path/to/file.json        local file
//	file:///abs/file.json    local file
//	s3://bucket/key.json     S3 or S3-compatible object storage
//
// S3 access uses the default AWS credential chain. VARCAR_S3_REGION,
// VARCAR_S3_ENDPOINT and VARCAR_S3_PATH_STYLE configure region and
// S3-compatible endpoints such as MinIO.
package source
