// Package pool provides buffer reuse for request body assembly.
//
// The small-file upload path builds a complete multipart body in memory
// per request; pooling those buffers keeps repeated uploads from
// re-allocating them.
package pool
