package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildCatalogQuery_OwnerScopeAndFilters(t *testing.T) {
	owner := int64(7)
	year := 2024
	sql, args, err := BuildCatalogQuery(CatalogFilter{
		OwnerID:           &owner,
		Course:            strPtr("CSE110"),
		ResourceType:      strPtr("quiz"),
		ResourceTypeExact: true,
		Year:              &year,
	}).ToSql()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sql, "SELECT id, user_id, filename"))
	assert.Contains(t, sql, "FROM resources WHERE user_id = $1 AND course = $2 AND resource_type = $3 AND year = $4")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY rating DESC, id ASC"))
	assert.Equal(t, []interface{}{int64(7), "CSE110", "quiz", 2024}, args)
}

func TestBuildCatalogQuery_BrowseHasNoOwnerCondition(t *testing.T) {
	sql, args, err := BuildCatalogQuery(CatalogFilter{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestBuildCatalogQuery_UnknownResourceTypeIsCaseInsensitive(t *testing.T) {
	sql, args, err := BuildCatalogQuery(CatalogFilter{ResourceType: strPtr("slides")}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE LOWER(resource_type) = LOWER($1)")
	assert.Equal(t, []interface{}{"slides"}, args)
}

func TestBuildCatalogQuery_Sort(t *testing.T) {
	tests := []struct {
		sort SortKey
		want string
	}{
		{SortRating, "ORDER BY rating DESC, id ASC"},
		{SortDate, "ORDER BY created_at DESC, id ASC"},
		{SortDownloads, "ORDER BY downloads DESC, id ASC"},
		{SortKey("title"), "ORDER BY rating DESC, id ASC"},
		{SortKey(""), "ORDER BY rating DESC, id ASC"},
	}

	for _, tt := range tests {
		sql, _, err := BuildCatalogQuery(CatalogFilter{Sort: tt.sort}).ToSql()
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(sql, tt.want), "sort %q: %s", tt.sort, sql)
	}
}

func TestBuildCatalogQuery_CourseSet(t *testing.T) {
	sql, args, err := BuildCatalogQuery(CatalogFilter{Courses: []string{"CSE110", "CSE220"}}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE course IN ($1,$2)")
	assert.Equal(t, []interface{}{"CSE110", "CSE220"}, args)
}
