// Package dualencoder provides a high-level client for a pretrained
// dual-encoder model (CLIP family) served behind an OpenAI-compatible
// inference API. The dual encoder maps images and texts into one shared
// embedding space, so similarity between an image and a text is just the
// cosine of their vectors.
//
// # Overview
//
// The package exposes a single public entrypoint, Client, which hides all
// low-level HTTP details, endpoint paths, authentication, and wire formats.
//
//	client, err := dualencoder.NewClient(cfg)
//
// Three embedding operations are provided:
//
//	client.EmbedTexts(ctx, []string{"a photo of a cat"})
//	client.EmbedImages(ctx, [][]byte{jpegBytes})
//	client.EmbedImageFile(ctx, "cat.jpg")
//
// and one scoring operation:
//
//	scores, err := client.Rank(ctx, jpegBytes, []string{
//	    "a photo of a cat",
//	    "a photo of a dog",
//	    "a diagram",
//	})
//
// Rank embeds both sides, scales the pairwise cosine similarities by the
// model's logit scale (default 100, CLIP's trained value), and softmaxes
// them into a probability distribution over the candidates, highest first.
//
// # Configuration
//
// Configuration is sourced from environment variables and constructed by
// dualencoder.NewConfig():
//
//   - DUAL_ENCODER_ENDPOINT: base URL of the inference service (required)
//   - DUAL_ENCODER_MODEL: pretrained checkpoint identifier (required)
//   - DUAL_ENCODER_SERVICE_TOKEN: bearer token (optional)
//   - DUAL_ENCODER_LOGIT_SCALE: similarity-to-logit multiplier (default 100)
//   - DUAL_ENCODER_HTTP_TIMEOUT_SECONDS: request timeout (default 30)
//
// # Wire format
//
// Texts are sent as plain strings in the /v1/embeddings input array; images
// as base64 data URLs with a sniffed content type, the representation
// multimodal embedding servers accept for pixel inputs. Responses are
// float64 JSON numbers converted to float32 at this boundary, matching the
// element type the vector database stores.
//
// # Dependency Injection (Fx)
//
// A ready-to-use Fx module is provided:
//
//	app := fx.New(
//	    dualencoder.FXModule,
//	    fx.Invoke(func(c *dualencoder.Client) {
//	        // ...
//	    }),
//	)
//
// # Design Notes
//
//   - Only a single provider implementation exists (inferenceProvider). It
//     is unexported on purpose to keep endpoint-level complexity internal.
//   - The model's forward pass stays entirely behind the inference API;
//     this package owns preprocessing glue and score post-processing only.
//   - Responses are validated for one-vector-per-input and consistent
//     dimensionality before they reach callers.
package dualencoder
