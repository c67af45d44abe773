// Package skynet provides a high-level Go client for uploading data to
// the Skynet content-addressed storage network. It returns skylinks, the
// network's canonical content identifiers, for uploaded byte streams of
// arbitrary size.
//
// The client emphasizes developer experience through simple APIs while
// maintaining performance through intelligent defaults for chunking,
// concurrency, and retries.
//
// Key features:
//   - Simple, zero-configuration usage against a public portal
//   - Progressive enhancement through functional options
//   - Automatic switch to concurrent resumable sessions for large files
//   - Chunk-aligned partitioning so interrupted parts resume cleanly
//   - Comprehensive error handling with context
//
// Example usage:
//
//	client, err := skynet.New()
//	if err != nil {
//	    return err
//	}
//
//	// Upload a file
//	result, err := client.UploadFile(ctx, "/local/file.txt")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.URI)
package skynet
