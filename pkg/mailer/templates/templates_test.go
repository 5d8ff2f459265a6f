package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/spaceboard/config"
)

func testConfig() *config.Config {
	return &config.Config{AppName: "Spaceboard", CompanyName: "Acme", AppURL: "https://board.example.com/"}
}

func TestRenderMemberAdded(t *testing.T) {
	data := NewMemberAddedData(testConfig(), "Bob", "bob@example.com", "Alice", "space", "Engineering")

	subject, text, html, err := Render(MemberAdded, data)
	require.NoError(t, err)
	assert.Equal(t, "Alice added you to the space Engineering", subject)
	assert.Contains(t, text, "Hi Bob,")
	assert.Contains(t, text, "https://board.example.com/")
	assert.Contains(t, html, "<strong>Engineering</strong>")
}

func TestRenderIssueAssigned(t *testing.T) {
	due := time.Now().Add(72 * time.Hour)
	data := NewIssueAssignedData(testConfig(), "Bob", "bob@example.com", "Alice", "ET-007", "Fix <login>", "Engineering", "High", &due)

	subject, text, html, err := Render(IssueAssigned, data)
	require.NoError(t, err)
	assert.Equal(t, "[ET-007] Fix <login> was assigned to you", subject)
	assert.Contains(t, text, "Priority: High")
	assert.Contains(t, text, "from now")
	assert.Contains(t, text, "https://board.example.com/issues/ET-007")
	assert.Contains(t, html, "Fix &lt;login&gt;", "html output is escaped")
}

func TestRenderWithoutOptionalFields(t *testing.T) {
	data := NewIssueAssignedData(&config.Config{}, "", "bob@example.com", "", "ET-001", "Title", "", "", nil)

	_, text, _, err := Render(IssueAssigned, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Hi there,")
	assert.Contains(t, text, "Someone assigned ET-001")
	assert.Contains(t, text, "Priority: Medium")
	assert.NotContains(t, text, "Due:")
	assert.NotContains(t, text, "View the issue")
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(MemberAdded))
	assert.True(t, Known(IssueAssigned))
	assert.False(t, Known("login_otp"))
}
