// Package phonetic fetches IPA transcriptions for card fronts using
// OpenAI's GPT models. Transcriptions are cached in-process so repeated
// fronts within one run cost a single API call.
package phonetic
