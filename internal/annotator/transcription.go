package annotator

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// transcription is the JSON shape requested from the model.
type transcription struct {
	Paragraphs []struct {
		Sentences []struct {
			Tokens []struct {
				Text string `json:"text"`
				IPA  string `json:"ipa"`
			} `json:"tokens"`
		} `json:"sentences"`
	} `json:"paragraphs"`
}

const transcriptionPrompt = `You are a phonetician. Split the user's %s text into paragraphs, sentences and tokens (words and punctuation marks, in order) and give the IPA pronunciation of every word, phonemes separated by single spaces. Punctuation tokens get an empty "ipa". Respond with JSON only, in the form {"paragraphs":[{"sentences":[{"tokens":[{"text":"...","ipa":"..."}]}]}]}.`

// transcriptionToMaryXML decodes a model answer and renders it as MaryXML.
func transcriptionToMaryXML(content, locale string) (string, error) {
	var tr transcription
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &tr); err != nil {
		return "", fmt.Errorf("failed to decode transcription: %w", err)
	}
	return tr.maryXML(locale)
}

type maryDocument struct {
	XMLName    xml.Name        `xml:"maryxml"`
	Version    string          `xml:"version,attr"`
	Locale     string          `xml:"locale,attr,omitempty"`
	Paragraphs []maryParagraph `xml:"p"`
}

type maryParagraph struct {
	Sentences []marySentence `xml:"s"`
}

type marySentence struct {
	Tokens []maryToken `xml:"t"`
}

type maryToken struct {
	Phoneme *string `xml:"ph,attr"`
	Text    string  `xml:",chardata"`
}

func (tr *transcription) maryXML(locale string) (string, error) {
	doc := maryDocument{
		Version: "0.5",
		Locale:  locale,
	}

	for _, p := range tr.Paragraphs {
		var para maryParagraph
		for _, s := range p.Sentences {
			var sent marySentence
			for _, t := range s.Tokens {
				tok := maryToken{Text: t.Text}
				if ipa := strings.TrimSpace(t.IPA); ipa != "" {
					tok.Phoneme = &ipa
				}
				sent.Tokens = append(sent.Tokens, tok)
			}
			para.Sentences = append(para.Sentences, sent)
		}
		doc.Paragraphs = append(doc.Paragraphs, para)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode MaryXML: %w", err)
	}

	return xml.Header + string(out), nil
}
