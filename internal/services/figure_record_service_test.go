package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/dtos"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/pagination"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

func TestFigureRecordCreateDerivesStrokeCount(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()

	rec, err := f.Figures.Create(f.Ctx, user, dtos.CreateFigureRecordRequest{
		Character: "さ",
		Figure:    figureWithStrokes(3),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), rec.StrokeCount)
	assert.Equal(t, int64(1), rec.Version)

	got, err := f.Figures.Get(f.Ctx, user, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Figure, got.Figure)

	_, err = f.Figures.Get(f.Ctx, uuid.New(), rec.ID)
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestFigureRecordCreateRejectsEmptyFigure(t *testing.T) {
	f := newFixture(t)

	_, err := f.Figures.Create(f.Ctx, uuid.New(), dtos.CreateFigureRecordRequest{
		Character: "さ",
		Figure:    figureWithStrokes(0),
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestFigureRecordSetDisabled(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	rec, err := f.Figures.Create(f.Ctx, user, dtos.CreateFigureRecordRequest{Character: "し", Figure: figureWithStrokes(1)})
	require.NoError(t, err)

	disabled, err := f.Figures.SetDisabled(f.Ctx, user, rec.ID, dtos.SetFigureRecordDisabledRequest{Disabled: true, Version: 1})
	require.NoError(t, err)
	assert.True(t, disabled.Disabled)
	assert.Equal(t, int64(2), disabled.Version)

	_, err = f.Figures.SetDisabled(f.Ctx, user, rec.ID, dtos.SetFigureRecordDisabledRequest{Disabled: false, Version: 1})
	require.ErrorIs(t, err, utils.ErrConflict)

	pages, err := f.Figures.ListByCharacters(f.Ctx, user, []string{"し"}, pagination.Args{First: utils.Ptr(10)})
	require.NoError(t, err)
	assert.Empty(t, pages["し"].Values)
}

func TestFigureRecordListByCharactersBatches(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	chars := []string{"す", "せ", "そ"}
	for i, c := range chars {
		for n := 0; n <= i; n++ {
			_, err := f.Figures.Create(f.Ctx, user, dtos.CreateFigureRecordRequest{Character: c, Figure: figureWithStrokes(n + 1)})
			require.NoError(t, err)
		}
	}
	_, err := f.Figures.Create(f.Ctx, uuid.New(), dtos.CreateFigureRecordRequest{Character: "す", Figure: figureWithStrokes(1)})
	require.NoError(t, err)

	pages, err := f.Figures.ListByCharacters(f.Ctx, user, chars, pagination.Args{First: utils.Ptr(2)})
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Len(t, pages["す"].Values, 1)
	assert.False(t, pages["す"].HasNextPage)
	assert.Len(t, pages["せ"].Values, 2)
	assert.False(t, pages["せ"].HasNextPage)
	assert.Len(t, pages["そ"].Values, 2)
	assert.True(t, pages["そ"].HasNextPage)

	assert.Equal(t, int64(1), f.FigureRecordRepo.QueryBatchCalls.Load())
	assert.Zero(t, f.FigureRecordRepo.QueryCalls.Load())
}

func TestFigureRecordListByCharactersValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.Figures.ListByCharacters(f.Ctx, uuid.New(), nil, pagination.Args{First: utils.Ptr(1)})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = f.Figures.ListByCharacters(f.Ctx, uuid.New(), []string{"た"}, pagination.Args{})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = f.Figures.ListByCharacters(f.Ctx, uuid.New(), []string{"た"}, pagination.Args{
		First: utils.Ptr(1),
		After: utils.Ptr("not-a-cursor"),
	})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "after", verr.Field)
	assert.Zero(t, f.FigureRecordRepo.QueryBatchCalls.Load())
}

func TestFigureRecordWritesClearRequestListings(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	ctx, _ := f.RequestContext()

	first := pagination.Args{First: utils.Ptr(10)}
	last := pagination.Args{Last: utils.Ptr(1)}
	for _, args := range []pagination.Args{first, last} {
		pages, err := f.Figures.ListByCharacters(ctx, user, []string{"た"}, args)
		require.NoError(t, err)
		assert.Empty(t, pages["た"].Values)
	}

	rec, err := f.Figures.Create(ctx, user, dtos.CreateFigureRecordRequest{Character: "た", Figure: figureWithStrokes(2)})
	require.NoError(t, err)

	for _, args := range []pagination.Args{first, last} {
		pages, err := f.Figures.ListByCharacters(ctx, user, []string{"た"}, args)
		require.NoError(t, err)
		require.Len(t, pages["た"].Values, 1, "created record must be listed in the same request")
		assert.False(t, pages["た"].Values[0].Disabled)
	}

	_, err = f.Figures.SetDisabled(ctx, user, rec.ID, dtos.SetFigureRecordDisabledRequest{Disabled: true, Version: rec.Version})
	require.NoError(t, err)

	for _, args := range []pagination.Args{first, last} {
		pages, err := f.Figures.ListByCharacters(ctx, user, []string{"た"}, args)
		require.NoError(t, err)
		assert.Empty(t, pages["た"].Values, "disabled record must drop out of the same request's listing")
	}
}
