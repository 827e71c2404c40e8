package maccms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymzhao/vodbridge/internal/endpoint"
	apperrors "github.com/ymzhao/vodbridge/internal/errors"
	testhelper "github.com/ymzhao/vodbridge/internal/testing"
)

func newTestFacade(t *testing.T, handler http.HandlerFunc) *Facade {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := endpoint.NewStore(testhelper.TestDB(t))
	binding := NewBinding(BindingConfig{
		Store:  store,
		Client: ClientConfig{RetryAttempts: 1},
	})
	require.NoError(t, store.Add("test", server.URL))
	require.NoError(t, binding.Refresh())
	return NewFacade(binding)
}

func TestAllCategories(t *testing.T) {
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":1,"msg":"ok","class":[
			{"type_id":1,"type_pid":0,"type_name":"电影"},
			{"type_id":2,"type_pid":0,"type_name":"电视剧"},
			{"type_id":6,"type_pid":1,"type_name":"动作片"}
		]}`))
	})

	envelope, err := facade.AllCategories(context.Background())
	require.NoError(t, err)
	assert.True(t, envelope.OK())
	require.Len(t, envelope.List, 3)
	assert.Equal(t, 3, envelope.Total)
	assert.Equal(t, "电影", envelope.List[0].Name)
}

func TestAllCategoriesDegradedOnUpstreamFailure(t *testing.T) {
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"数据库异常"}`))
	})

	envelope, err := facade.AllCategories(context.Background())
	require.NoError(t, err)
	assert.False(t, envelope.OK())
	assert.Equal(t, "数据库异常", envelope.Msg)
	assert.NotNil(t, envelope.List)
	assert.Empty(t, envelope.List)
}

func TestCategoryVideosOrderValidation(t *testing.T) {
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listPayload))
	})

	_, err := facade.CategoryVideos(context.Background(), 6, 1, 20, "popularity")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.GetErrorCode(err))

	for _, order := range []string{"", OrderByTime, OrderByHits, OrderByScore} {
		_, err := facade.CategoryVideos(context.Background(), 6, 1, 20, order)
		assert.NoError(t, err)
	}
}

func TestCategoryVideosForwardsTypeAndPage(t *testing.T) {
	var gotType, gotPage string
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("t")
		gotPage = r.URL.Query().Get("pg")
		w.Write([]byte(listPayload))
	})

	envelope, err := facade.CategoryVideos(context.Background(), 6, 3, 20, OrderByTime)
	require.NoError(t, err)
	assert.Equal(t, "6", gotType)
	assert.Equal(t, "3", gotPage)
	assert.Len(t, envelope.List, 1)
}

func TestVideoDetailDegradedOnUpstreamFailure(t *testing.T) {
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":-1,"msg":"参数错误"}`))
	})

	envelope, err := facade.VideoDetail(context.Background(), 101)
	require.NoError(t, err)
	assert.False(t, envelope.OK())
	assert.Empty(t, envelope.List)
}

func TestSearchVideosSendsKeyword(t *testing.T) {
	var gotKeyword string
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		gotKeyword = r.URL.Query().Get("wd")
		w.Write([]byte(listPayload))
	})

	_, err := facade.SearchVideos(context.Background(), "测试", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "测试", gotKeyword)
}

func TestRecentVideosSendsHoursWindow(t *testing.T) {
	var gotHours string
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		gotHours = r.URL.Query().Get("h")
		w.Write([]byte(listPayload))
	})

	_, err := facade.RecentVideos(context.Background(), 1, 20, nil)
	require.NoError(t, err)
	assert.Empty(t, gotHours)

	hours := 72
	_, err = facade.RecentVideos(context.Background(), 1, 20, &hours)
	require.NoError(t, err)
	assert.Equal(t, "72", gotHours)
}

func TestFilterVideosAppliesPageFilters(t *testing.T) {
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":1,"msg":"ok","page":1,"pagecount":1,"total":3,"list":[
			{"vod_id":1,"vod_name":"甲","vod_year":"2024","vod_area":"大陆"},
			{"vod_id":2,"vod_name":"乙","vod_year":"2023","vod_area":"大陆"},
			{"vod_id":3,"vod_name":"丙","vod_year":"2024","vod_area":"香港"}
		]}`))
	})

	envelope, err := facade.FilterVideos(context.Background(), map[string]string{FilterYear: "2024"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, envelope.List, 2)
	assert.Equal(t, 2, envelope.Total)

	envelope, err = facade.FilterVideos(context.Background(), map[string]string{
		FilterYear: "2024",
		FilterArea: "大陆",
	}, 1, 20)
	require.NoError(t, err)
	require.Len(t, envelope.List, 1)
	assert.Equal(t, 1, envelope.List[0].ID)
}

func TestFilterVideosForwardsTypeUpstream(t *testing.T) {
	var gotType string
	facade := newTestFacade(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.URL.Query().Get("t")
		w.Write([]byte(listPayload))
	})

	_, err := facade.FilterVideos(context.Background(), map[string]string{FilterType: "6"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "6", gotType)

	_, err = facade.FilterVideos(context.Background(), map[string]string{FilterType: "action"}, 1, 20)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.GetErrorCode(err))
}

func TestFacadeUnconfigured(t *testing.T) {
	store := endpoint.NewStore(testhelper.TestDB(t))
	binding := NewBinding(BindingConfig{Store: store})
	facade := NewFacade(binding)

	_, err := facade.AllCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeEndpointNotConfigured, apperrors.GetErrorCode(err))
}
