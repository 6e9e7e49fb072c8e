package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTML(t *testing.T) {
	doc, err := ParseHTML(`<html><body><p class="tagline">Umroh Plus</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Umroh Plus", doc.Find("p.tagline").Text())
}

func TestExtractText(t *testing.T) {
	doc := parseDoc(t, `<html><head><title> Amanah Travel </title></head>
		<body><svg><title>icon</title></svg></body></html>`)

	text, err := ExtractText(doc, "title")
	require.NoError(t, err)
	assert.Equal(t, "Amanah Travel", text)

	_, err = ExtractText(doc, "h1")
	assert.Error(t, err)
}

func TestExtractAttribute(t *testing.T) {
	doc := parseDoc(t, `<html><body><header>
		<img src="a.png" alt=" Berkah Tour ">
		<img src="b.png" alt="Second">
		<span>no attributes</span>
	</header></body></html>`)

	alt, err := ExtractAttribute(doc, "header img[alt]", "alt")
	require.NoError(t, err)
	assert.Equal(t, "Berkah Tour", alt)

	_, err = ExtractAttribute(doc, "footer img", "alt")
	assert.Error(t, err)

	_, err = ExtractAttribute(doc, "header span", "title")
	assert.Error(t, err)
}
