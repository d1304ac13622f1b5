// Package httpx holds the small request/response helpers shared by the
// HTTP modules: strict JSON body decoding and JSON rendering with the
// error body shapes the API exposes.
package httpx
