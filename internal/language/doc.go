// Package language normalizes transcription language hints.
//
// Users pass hints as ISO 639-1 codes ("en"), ISO 639-2 codes ("eng"), BCP 47
// tags ("en-US", "pt-BR") or English names ("english"). Providers expect the
// bare ISO 639-1 code, or nothing at all when the language should be detected.
package language
