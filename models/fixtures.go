package models

// SeedProfiles is the built-in candidate set served when the profiles table
// is empty. It keeps a fresh deployment browsable before real signups exist;
// discovery falls back to it on zero rows, which deliberately blurs "no
// data" with "seed data" for demo purposes.
var SeedProfiles = []Profile{
	{
		ID:           "seed-1",
		Name:         "Erik Svensson",
		Age:          35,
		Gender:       GenderMan,
		Handicap:     12.4,
		HomeCourse:   "Stockholms Golfklubb",
		Location:     "Stockholm",
		Bio:          "Spelar golf för att koppla av från jobbet. Söker sällskap för helgrundor.",
		RoundTypes:   []string{RoundSallskapsrunda, RoundMatchspel},
		Availability: []string{"Helger", "Fredagar"},
	},
	{
		ID:           "seed-2",
		Name:         "Anna Lindberg",
		Age:          29,
		Gender:       GenderKvinna,
		Handicap:     8.1,
		HomeCourse:   "Bro Hof Slott GC",
		Location:     "Stockholm",
		Bio:          "Tävlingsinriktad golfare som söker utmaning. Är hcp 8 och vill gärna förbättras.",
		RoundTypes:   []string{RoundTraningsrunda, RoundMatchspel},
		Availability: []string{"Kvällar", "Helger"},
	},
	{
		ID:           "seed-3",
		Name:         "Johan Bergström",
		Age:          42,
		Gender:       GenderMan,
		Handicap:     18.7,
		HomeCourse:   "Täby GK",
		Location:     "Täby",
		Bio:          "Glad amatör som spelar för det sociala. Gillar en öl efter rundan.",
		RoundTypes:   []string{RoundSallskapsrunda, RoundScramble},
		Availability: []string{"Helger"},
	},
	{
		ID:           "seed-4",
		Name:         "Sofia Ekström",
		Age:          31,
		Gender:       GenderKvinna,
		Handicap:     15.3,
		HomeCourse:   "Österåkers GK",
		Location:     "Åkersberga",
		Bio:          "Började spela golf för 3 år sedan och är fast! Söker spelpartners för träningsrundor.",
		RoundTypes:   []string{RoundTraningsrunda, RoundSallskapsrunda},
		Availability: []string{"Kvällar", "Helger"},
	},
	{
		ID:           "seed-5",
		Name:         "Lars Johansson",
		Age:          55,
		Gender:       GenderMan,
		Handicap:     5.2,
		HomeCourse:   "Kungliga Drottningholms GK",
		Location:     "Stockholm",
		Bio:          "Pensionerad med massor av tid för golf. Hjälper gärna nybörjare med tips.",
		RoundTypes:   []string{RoundMatchspel, RoundFoursome, RoundTraningsrunda},
		Availability: []string{"Vardagar", "Helger"},
	},
}
