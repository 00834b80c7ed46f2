package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticle_Clone(t *testing.T) {
	// Arrange
	date := "2024-03-01"
	original := Article{
		Slug:        "xss",
		Title:       "Cross-Site Scripting",
		Tags:        []string{"web", "injection"},
		Date:        &date,
		Connections: []string{"web-security"},
	}

	// Act
	clone := original.Clone()
	clone.Tags[0] = "mutated"
	clone.Connections[0] = "mutated"
	*clone.Date = "1999-01-01"

	// Assert
	assert.Equal(t, "web", original.Tags[0])
	assert.Equal(t, "web-security", original.Connections[0])
	assert.Equal(t, "2024-03-01", *original.Date)
}

func TestArticle_CloneNilListsBecomeEmpty(t *testing.T) {
	clone := Article{Slug: "a"}.Clone()

	assert.NotNil(t, clone.Tags)
	assert.NotNil(t, clone.Connections)
	assert.Nil(t, clone.Date)
}

func TestArticle_Accessors(t *testing.T) {
	a := Article{
		Slug:        "apt",
		Title:       "Advanced Persistent Threats and Lifecycle",
		ShortTitle:  "Advanced Persistent...",
		Tags:        []string{"Threats"},
		Connections: []string{"malware-analysis"},
	}

	assert.Equal(t, "Advanced Persistent...", a.DisplayName())
	assert.True(t, a.HasTag("Threats"))
	assert.False(t, a.HasTag("threats"))
	assert.True(t, a.ConnectsTo("malware-analysis"))
	assert.False(t, a.HasDate())

	a.ShortTitle = ""
	assert.Equal(t, a.Title, a.DisplayName())
}

func TestArticle_Normalize(t *testing.T) {
	a := Article{Slug: "a"}
	a.Normalize()

	assert.Equal(t, []string{}, a.Tags)
	assert.Equal(t, []string{}, a.Connections)
}
