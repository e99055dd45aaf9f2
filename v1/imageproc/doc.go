// Package imageproc prepares raw image bytes for multimodal models.
//
// Vision encoders expect fixed-size square inputs (224x224 for most
// CLIP-family checkpoints). PrepareForModel reproduces the standard
// preprocessing pipeline on the client side: decode, resize so the shortest
// side matches the target, center crop to a square, re-encode as JPEG.
// Running it before upload keeps payloads small and makes the bytes the
// inference service sees deterministic.
//
// Decoding handles JPEG, PNG, GIF, BMP, TIFF and WebP via registered
// decoders.
package imageproc
