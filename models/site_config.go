package models

import "go.mongodb.org/mongo-driver/bson"

const (
	DefaultSlogan       = "Descubra o sabor da natureza em cada gole. Nossos sumos são feitos com ingredientes frescos e selecionados para energizar o seu dia."
	DefaultHeroImageURL = "https://images.unsplash.com/photo-1551218808-94e220e084d2?q=80&w=1974&auto=format&fit=crop"
)

type ContactConfig struct {
	BusinessPhoneNumber string `bson:"businessPhoneNumber" json:"businessPhoneNumber"`
}

type HomepageConfig struct {
	Slogan       string `bson:"slogan" json:"slogan"`
	HeroImageURL string `bson:"heroImageUrl" json:"heroImageUrl"`
}

func DecodeContact(data bson.M) (ContactConfig, error) {
	var c ContactConfig
	if data == nil {
		return c, nil
	}
	err := decode(data, &c)
	return c, err
}

// DecodeHomepage fills blank fields with the shop defaults. A nil data map
// stands for a document that was never saved.
func DecodeHomepage(data bson.M) (HomepageConfig, error) {
	var h HomepageConfig
	if data != nil {
		if err := decode(data, &h); err != nil {
			return HomepageConfig{}, err
		}
	}
	if h.Slogan == "" {
		h.Slogan = DefaultSlogan
	}
	if h.HeroImageURL == "" {
		h.HeroImageURL = DefaultHeroImageURL
	}
	return h, nil
}
