package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ymzhao/vodbridge/internal/models"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		remarks string
		want    string
	}{
		{"over an hour", "125分钟", "2小时5分钟"},
		{"exactly an hour", "60分钟", "1小时0分钟"},
		{"under an hour", "45分钟", "45分钟"},
		{"zero minutes", "0分钟", UnknownDuration},
		{"embedded in text", "完结 95分钟 高清", "1小时35分钟"},
		{"no duration", "更新至第8集", UnknownDuration},
		{"empty remarks", "", UnknownDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.remarks))
		})
	}
}

func TestExtractRating(t *testing.T) {
	tests := []struct {
		name    string
		remarks string
		want    string
	}{
		{"decimal rating", "这是一个很好的视频 8.5分", "8.5"},
		{"integer rating", "9分", "9"},
		{"rating kept verbatim", "7.25分", "7.25"},
		{"no rating", "更新至第8集", NoRating},
		{"empty remarks", "", NoRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRating(tt.remarks))
		})
	}
}

func TestFormatPubTime(t *testing.T) {
	tests := []struct {
		name       string
		updateTime string
		want       string
	}{
		{"bare date gets midnight", "2024-12-14", "2024-12-14 00:00:00"},
		{"full timestamp unchanged", "2024-12-14 10:30:00", "2024-12-14 10:30:00"},
		{"empty", "", UnknownTime},
		{"whitespace only", "   ", UnknownTime},
		{"odd length unchanged", "2024-12", "2024-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPubTime(tt.updateTime))
		})
	}
}

func TestQualityTag(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"HD title", "测试视频 HD版本", QualityHD},
		{"4K title", "测试视频 4K版本", Quality4K},
		{"plain title", "普通测试视频", QualityStandard},
		{"lowercase hd", "测试视频 hd版本", QualityHD},
		{"HD wins over 4K", "测试视频 HD 4K", QualityHD},
		{"empty title", "", QualityStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualityTag(tt.title))
		})
	}
}

func TestDisplayAdapt(t *testing.T) {
	envelope := &models.VideoEnvelope{
		Code: 1,
		Msg:  "success",
		List: []models.VideoRecord{
			{ID: 1, Name: "测试视频 HD版本", Remarks: "125分钟", UpdateTime: "2024-12-14"},
			{ID: 2, Name: "普通测试视频"},
		},
		Classes: []models.CategoryRecord{{ID: 1, Name: "电影"}},
	}

	adapted := Display{}.Adapt(envelope)

	first := adapted.List[0]
	assert.Equal(t, "2小时5分钟", first.GetExtra(models.ExtraFormattedDuration))
	assert.Equal(t, "2024-12-14 00:00:00", first.GetExtra(models.ExtraFormattedPubTime))
	assert.Equal(t, QualityHD, first.GetExtra(models.ExtraQualityTag))

	second := adapted.List[1]
	assert.Equal(t, UnknownDuration, second.GetExtra(models.ExtraFormattedDuration))
	assert.Equal(t, NoRating, second.GetExtra(models.ExtraRating))
	assert.Equal(t, UnknownTime, second.GetExtra(models.ExtraFormattedPubTime))
	assert.Equal(t, QualityStandard, second.GetExtra(models.ExtraQualityTag))

	// Core fields and ordering survive untouched.
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "测试视频 HD版本", first.Name)
	assert.Equal(t, envelope.Classes, adapted.Classes)

	// The input envelope is not mutated.
	assert.Nil(t, envelope.List[0].Extra)
}

func TestDisplayAdaptIdempotent(t *testing.T) {
	envelope := &models.VideoEnvelope{
		Code: 1,
		List: []models.VideoRecord{{ID: 1, Name: "电影 4K", Remarks: "好评如潮 8.2分", UpdateTime: "2025-01-02"}},
	}

	once := Display{}.Adapt(envelope)
	twice := Display{}.Adapt(once)

	assert.Equal(t, once.List[0].Extra, twice.List[0].Extra)
	assert.Equal(t, "8.2", twice.List[0].GetExtra(models.ExtraRating))
}

func TestDisplayAdaptEmptyEnvelope(t *testing.T) {
	adapted := Display{}.Adapt(&models.VideoEnvelope{Code: 1})
	assert.NotNil(t, adapted)
	assert.Empty(t, adapted.List)
}

func TestPassthroughAdapt(t *testing.T) {
	envelope := &models.VideoEnvelope{Code: 1, List: []models.VideoRecord{{ID: 7}}}
	assert.Same(t, envelope, Passthrough{}.Adapt(envelope))
}

func TestParseEpisodes(t *testing.T) {
	episodes := ParseEpisodes("第1集$http://a/1.m3u8#第2集$bad-url#第3集$https://a/3.m3u8")

	assert.Len(t, episodes, 2)
	assert.Equal(t, "第1集", episodes[0].Name)
	assert.Equal(t, "http://a/1.m3u8", episodes[0].URL)
	assert.Equal(t, "第3集", episodes[1].Name)
	assert.Equal(t, "https://a/3.m3u8", episodes[1].URL)
}

func TestParseEpisodesEdgeCases(t *testing.T) {
	assert.Nil(t, ParseEpisodes(""))
	assert.Nil(t, ParseEpisodes("no separator at all"))
	assert.Nil(t, ParseEpisodes("第1集$ftp://a/1.m3u8"))

	trimmed := ParseEpisodes("第1集$ http://a/1.m3u8 ")
	assert.Len(t, trimmed, 1)
	assert.Equal(t, "http://a/1.m3u8", trimmed[0].URL)
}
