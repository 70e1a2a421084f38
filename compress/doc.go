// Package compress provides compression and decompression codecs for
// envelope payloads.
//
// tagbuf itself never compresses: the wire format has no framing header
// and a Reader expects to find a tag byte at position zero. Compression is
// applied one layer up, by the envelope package, which wraps a whole
// encoded buffer with a small header naming the algorithm used so Unwrap
// can pick the matching Decompressor.
//
// Four algorithms are supported, trading ratio for speed:
//   - None: no compression, for payloads that are already incompressible
//     or where CPU matters more than size.
//   - S2: fast, moderate ratio; a good default for latency-sensitive paths.
//   - LZ4: very fast decompression, moderate compression.
//   - Zstd: best ratio, higher CPU cost; suited to archival or network
//     transfer where bandwidth matters more than latency. The pure-Go
//     implementation (klauspost/compress/zstd) is used by default; a cgo
//     binding (valyala/gozstd) is available behind a build tag for
//     deployments that can pay the cgo cost for extra throughput.
package compress
