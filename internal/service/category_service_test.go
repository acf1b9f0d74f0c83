package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTreeAssemblesForest(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Sodas", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryRequest{Name: "Juices", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryRequest{Name: "Snacks"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryRequest{Name: "Colas", ParentID: &child.ID})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)

	require.Len(t, tree, 2)

	byName := map[string]int{}
	var count func(nodes []*CategoryNode) int
	count = func(nodes []*CategoryNode) int {
		n := 0
		for _, node := range nodes {
			byName[node.Name] = len(node.Children)
			n += 1 + count(node.Children)
		}
		return n
	}

	// Every row appears exactly once in the forest.
	assert.Equal(t, 5, count(tree))
	assert.Equal(t, 2, byName["Drinks"])
	assert.Equal(t, 1, byName["Sodas"])
	assert.Equal(t, 0, byName["Snacks"])
}

func TestDeleteCategoryPromotesChildrenToRoots(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	parent, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Electronics"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryRequest{Name: "Phones", ParentID: &parent.ID})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryRequest{Name: "Laptops", ParentID: &parent.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, parent.ID))

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(tree))
	for _, node := range tree {
		names = append(names, node.Name)
	}
	assert.ElementsMatch(t, []string{"Phones", "Laptops"}, names)
}

func TestCategoryRejectsUnknownParentAndSelfParent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	missing := uint(999)
	_, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Orphan", ParentID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	cat, err := svc.CreateCategory(ctx, CategoryRequest{Name: "Loop"})
	require.NoError(t, err)
	_, err = svc.UpdateCategory(ctx, cat.ID, CategoryRequest{Name: "Loop", ParentID: &cat.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), 404), ErrNotFound)
}
