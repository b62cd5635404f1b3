// Package annotator retrieves phoneme markup for raw text from remote
// annotation services. The MaryTTS provider returns the service's MaryXML
// verbatim; the OpenAI provider synthesizes equivalent MaryXML so both can
// be consumed by the maryxml package.
package annotator
