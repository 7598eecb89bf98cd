// Package nal implements HEVC Network Abstraction Layer parsing over
// Annex B byte streams. It splits incrementally supplied byte ranges
// into NAL units, eagerly decodes the two-byte unit header, and exposes
// lazily decoded views of the parameter set and slice header syntax.
//
// The central type is [Parser], which owns a [Scanner] and a [Context]
// and produces one [Data] per discovered unit. Payload bytes are never
// copied out of the caller's buffers except when a unit straddles two
// Feed calls; callers must keep fed buffers alive for as long as any
// derived structure is in use.
package nal
