package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-profile-directory/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMentorRepositoryPrefixesIDs(t *testing.T) {
	repo, err := NewMentorRepository([]domain.Mentor{{ID: "sara", Name: "Sara"}, {ID: "mentor-reza", Name: "Reza"}})
	require.NoError(t, err)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mentor-sara", list[0].ID)
	assert.Equal(t, "mentor-reza", list[1].ID)

	m, err := repo.GetByID(context.Background(), "mentor-sara")
	require.NoError(t, err)
	assert.Equal(t, "Sara", m.Name)

	missing, err := repo.GetByID(context.Background(), "sara")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNewMentorRepositoryRejectsBadRoster(t *testing.T) {
	_, err := NewMentorRepository([]domain.Mentor{{ID: "a", Name: "A"}, {ID: "mentor-a", Name: "B"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewMentorRepository([]domain.Mentor{{ID: "a"}})
	assert.Error(t, err)
}

func TestLoadMentorRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentors.yaml")
	body := "mentors:\n  - id: omid\n    name: Omid\n    avatar_url: https://cdn.example.com/omid.png\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	repo, err := LoadMentorRepository(path)
	require.NoError(t, err)
	list, _ := repo.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, domain.Mentor{ID: "mentor-omid", Name: "Omid", AvatarURL: "https://cdn.example.com/omid.png"}, list[0])

	def, err := LoadMentorRepository("")
	require.NoError(t, err)
	list, _ = def.List(context.Background())
	assert.Len(t, list, len(DefaultMentors))
}

func TestListReturnsCopy(t *testing.T) {
	repo, err := NewMentorRepository(DefaultMentors)
	require.NoError(t, err)

	list, _ := repo.List(context.Background())
	list[0].Name = "changed"

	again, _ := repo.List(context.Background())
	assert.NotEqual(t, "changed", again[0].Name)
}
