// Package vqa answers natural-language questions about images.
//
// The client sends the image and question to a pretrained vision-language
// model (BLIP, LLaVA or similar) hosted behind an OpenAI-compatible
// /v1/chat/completions endpoint, then cleans the generated text down to the
// short answer the caller actually wants.
//
// Unlike the dual encoder in package dualencoder, which scores how well a
// whole caption matches an image, VQA models fuse vision and language inside
// one network and can answer pointed questions about image content:
//
//	client, err := vqa.NewClient(vqa.NewConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	answer, err := client.AnswerFile(ctx, "beach.jpg", "how many people are in the picture?")
//
// Answers are free-form text, typically a word or short phrase. The client
// never loads model weights; all heavy lifting happens on the inference
// service.
package vqa
