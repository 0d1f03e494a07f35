package meetups

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rockrashit19/Duslar/internal/i18n"
)

func TestStatusLabel(t *testing.T) {
	p := i18n.NewPrinter("ru")
	two := 2

	tests := []struct {
		name string
		card EventCard
		want string
	}{
		{name: "past wins over full", card: EventCard{Status: EventStatusPast, ParticipantsCount: 2, MaxParticipants: &two}, want: "уже прошло"},
		{name: "full", card: EventCard{Status: EventStatusOpen, ParticipantsCount: 2, MaxParticipants: &two}, want: "мест нет"},
		{name: "uncapped", card: EventCard{Status: EventStatusOpen, ParticipantsCount: 100}, want: "запись"},
		{name: "seats left", card: EventCard{Status: EventStatusOpen, ParticipantsCount: 1, MaxParticipants: &two}, want: "запись"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLabel(p, tt.card))
		})
	}
}

func TestGenderLabel(t *testing.T) {
	ru := i18n.NewPrinter("ru")
	assert.Equal(t, "мужчины", GenderLabel(ru, GenderMale))
	assert.Equal(t, "девушки", GenderLabel(ru, GenderFemale))
	assert.Equal(t, "все", GenderLabel(ru, GenderAll))
	assert.Equal(t, "everyone", GenderLabel(i18n.NewPrinter("en"), ""))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "Казань", Clip("Казань", 17))
	assert.Equal(t, "Набережные Челны,...", Clip("Набережные Челны, ул. Мира", 17))
	assert.Equal(t, "", Clip("Казань", 0))
	assert.Equal(t, "", Clip("Казань", -3))
}

func TestNormalizeCyrillic(t *testing.T) {
	assert.Equal(t, "Йошкар-Ола", NormalizeCyrillic("Йошкар-Ола12!"))
	assert.Equal(t, "Казань", NormalizeCyrillic("Kazan1Казань"))
}
