// Package maryxml converts MaryXML phoneme responses into pronunciation
// text and word to pronunciation dictionaries. Documents are walked in
// paragraph, sentence, token order and every transformation is a pure
// function of its input.
package maryxml
