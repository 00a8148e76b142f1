// Command seed loads the sample catalog into the database. It is safe to
// run repeatedly: seeding is skipped when any movies already exist.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinerec/cinerec/internal/repository"
	"github.com/cinerec/cinerec/internal/store"
)

type seedMovie struct {
	title     string
	genre     string
	year      int
	director  string
	cast      string
	ageRating string
}

var catalog = []seedMovie{
	{"The Shawshank Redemption", "Drama", 1994, "Frank Darabont", "Tim Robbins, Morgan Freeman, Bob Gunton", "R"},
	{"The Godfather", "Crime, Drama", 1972, "Francis Ford Coppola", "Marlon Brando, Al Pacino, James Caan", "R"},
	{"The Dark Knight", "Action, Crime, Drama", 2008, "Christopher Nolan", "Christian Bale, Heath Ledger, Aaron Eckhart", "PG-13"},
	{"Pulp Fiction", "Crime, Drama", 1994, "Quentin Tarantino", "John Travolta, Uma Thurman, Samuel L. Jackson", "R"},
	{"Forrest Gump", "Drama, Romance", 1994, "Robert Zemeckis", "Tom Hanks, Robin Wright, Gary Sinise", "PG-13"},
	{"Inception", "Action, Sci-Fi, Thriller", 2010, "Christopher Nolan", "Leonardo DiCaprio, Marion Cotillard, Tom Hardy", "PG-13"},
	{"The Matrix", "Action, Sci-Fi", 1999, "Lana Wachowski, Lilly Wachowski", "Keanu Reeves, Laurence Fishburne, Carrie-Anne Moss", "R"},
	{"Goodfellas", "Crime, Drama", 1990, "Martin Scorsese", "Robert De Niro, Ray Liotta, Joe Pesci", "R"},
	{"The Lord of the Rings: The Return of the King", "Adventure, Drama, Fantasy", 2003, "Peter Jackson", "Elijah Wood, Viggo Mortensen, Ian McKellen", "PG-13"},
	{"Fight Club", "Drama", 1999, "David Fincher", "Brad Pitt, Edward Norton, Helena Bonham Carter", "R"},
	{"Star Wars: Episode IV - A New Hope", "Action, Adventure, Fantasy", 1977, "George Lucas", "Mark Hamill, Harrison Ford, Carrie Fisher", "PG"},
	{"The Avengers", "Action, Adventure, Sci-Fi", 2012, "Joss Whedon", "Robert Downey Jr., Chris Evans, Scarlett Johansson", "PG-13"},
	{"Interstellar", "Adventure, Drama, Sci-Fi", 2014, "Christopher Nolan", "Matthew McConaughey, Anne Hathaway, Jessica Chastain", "PG-13"},
	{"The Silence of the Lambs", "Crime, Drama, Thriller", 1991, "Jonathan Demme", "Jodie Foster, Anthony Hopkins, Scott Glenn", "R"},
	{"Titanic", "Drama, Romance", 1997, "James Cameron", "Leonardo DiCaprio, Kate Winslet, Billy Zane", "PG-13"},
	{"Avatar", "Action, Adventure, Fantasy", 2009, "James Cameron", "Sam Worthington, Zoe Saldana, Sigourney Weaver", "PG-13"},
	{"Gladiator", "Action, Adventure, Drama", 2000, "Ridley Scott", "Russell Crowe, Joaquin Phoenix, Connie Nielsen", "R"},
	{"The Departed", "Crime, Drama, Thriller", 2006, "Martin Scorsese", "Leonardo DiCaprio, Matt Damon, Jack Nicholson", "R"},
	{"The Prestige", "Drama, Mystery, Thriller", 2006, "Christopher Nolan", "Hugh Jackman, Christian Bale, Michael Caine", "PG-13"},
	{"Casino Royale", "Action, Adventure, Thriller", 2006, "Martin Campbell", "Daniel Craig, Eva Green, Mads Mikkelsen", "PG-13"},
	{"Toy Story", "Animation, Adventure, Family", 1995, "John Lasseter", "Tom Hanks, Tim Allen, Don Rickles", "G"},
	{"Finding Nemo", "Animation, Adventure, Family", 2003, "Andrew Stanton", "Albert Brooks, Ellen DeGeneres, Alexander Gould", "G"},
	{"The Lion King", "Animation, Adventure, Drama", 1994, "Roger Allers, Rob Minkoff", "Matthew Broderick, Jeremy Irons, James Earl Jones", "G"},
	{"Frozen", "Animation, Adventure, Family", 2013, "Chris Buck, Jennifer Lee", "Kristen Bell, Idina Menzel, Jonathan Groff", "PG"},
	{"Moana", "Animation, Adventure, Family", 2016, "Ron Clements, John Musker", "Auli'i Cravalho, Dwayne Johnson, Rachel House", "PG"},
	{"Shrek", "Animation, Adventure, Comedy", 2001, "Andrew Adamson, Vicky Jenson", "Mike Myers, Eddie Murphy, Cameron Diaz", "PG"},
	{"Coco", "Animation, Adventure, Family", 2017, "Lee Unkrich, Adrian Molina", "Anthony Gonzalez, Gael Garcia Bernal, Benjamin Bratt", "PG"},
	{"Inside Out", "Animation, Adventure, Comedy", 2015, "Pete Docter", "Amy Poehler, Phyllis Smith, Richard Kind", "PG"},
	{"Up", "Animation, Adventure, Comedy", 2009, "Pete Docter", "Edward Asner, Jordan Nagai, John Ratzenberger", "PG"},
	{"Monsters, Inc.", "Animation, Adventure, Comedy", 2001, "Pete Docter", "Billy Crystal, John Goodman, Mary Gibbs", "G"},
	{"Kung Fu Panda", "Animation, Action, Adventure", 2008, "Mark Osborne, John Stevenson", "Jack Black, Ian McShane, Angelina Jolie", "PG"},
	{"Spider-Man: Into the Spider-Verse", "Animation, Action, Adventure", 2018, "Bob Persichetti, Peter Ramsey, Rodney Rothman", "Shameik Moore, Jake Johnson, Hailee Steinfeld", "PG"},
	{"The Hunger Games", "Action, Adventure, Sci-Fi", 2012, "Gary Ross", "Jennifer Lawrence, Josh Hutcherson, Liam Hemsworth", "PG-13"},
	{"Harry Potter and the Sorcerer's Stone", "Adventure, Family, Fantasy", 2001, "Chris Columbus", "Daniel Radcliffe, Rupert Grint, Emma Watson", "PG"},
	{"The Amazing Spider-Man", "Action, Adventure, Sci-Fi", 2012, "Marc Webb", "Andrew Garfield, Emma Stone, Rhys Ifans", "PG-13"},
}

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	logger := log.New(os.Stdout, "[cinerec-seed] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	st, err := store.New(ctx, dbURL, store.Options{Logger: logger})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	repo := repository.New(st)

	existing, err := repo.Movies.Search(ctx, "", "", 1)
	if err != nil {
		log.Fatalf("check existing movies: %v", err)
	}
	if len(existing) > 0 {
		logger.Println("movies already present, skipping seed")
		return
	}

	byTitle := make(map[string]string, len(catalog))
	for _, m := range catalog {
		rating := m.ageRating
		created, err := repo.Movies.Create(ctx, repository.MovieCreateParams{
			Title:     m.title,
			Genre:     m.genre,
			Year:      m.year,
			Director:  m.director,
			Cast:      m.cast,
			AgeRating: &rating,
		})
		if err != nil {
			log.Fatalf("seed movie %q: %v", m.title, err)
		}
		byTitle[m.title] = created.ID
	}
	logger.Printf("seeded %d movies", len(catalog))

	if os.Getenv("SEED_DEMO") != "" {
		seedDemo(ctx, repo, byTitle, logger)
	}
}

// seedDemo installs a few viewers with ratings and preferences so the
// recommendation endpoints have something to chew on locally.
func seedDemo(ctx context.Context, repo *repository.Repository, byTitle map[string]string, logger *log.Logger) {
	type demoViewer struct {
		username string
		age      *int
		ratings  map[string]float64
		genres   []string
	}
	age := func(v int) *int { return &v }
	viewers := []demoViewer{
		{
			username: "alice",
			age:      age(29),
			ratings: map[string]float64{
				"The Matrix": 5, "Inception": 5, "Interstellar": 4.5,
				"The Dark Knight": 4, "Pulp Fiction": 3.5,
			},
			genres: []string{"Sci-Fi", "Thriller"},
		},
		{
			username: "bob",
			age:      age(34),
			ratings: map[string]float64{
				"The Godfather": 5, "Goodfellas": 5, "The Departed": 4.5,
				"The Matrix": 4, "Inception": 4,
			},
			genres: []string{"Crime", "Drama"},
		},
		{
			username: "casey",
			age:      age(9),
			ratings: map[string]float64{
				"Toy Story": 5, "Moana": 5, "Frozen": 4,
			},
			genres: []string{"Animation", "Family"},
		},
	}

	for _, dv := range viewers {
		viewer, err := repo.Viewers.Create(ctx, repository.ViewerCreateParams{Username: dv.username, Age: dv.age})
		if err != nil {
			log.Fatalf("seed viewer %q: %v", dv.username, err)
		}
		for title, score := range dv.ratings {
			movieID, ok := byTitle[title]
			if !ok {
				continue
			}
			if _, _, err := repo.Ratings.Upsert(ctx, repository.RatingUpsertParams{
				ViewerID: viewer.ID,
				MovieID:  movieID,
				Score:    score,
			}); err != nil {
				log.Fatalf("seed rating %s/%s: %v", dv.username, title, err)
			}
		}
		prefs := make([]repository.PreferenceParams, 0, len(dv.genres))
		for _, g := range dv.genres {
			prefs = append(prefs, repository.PreferenceParams{Genre: g})
		}
		if err := repo.Preferences.Replace(ctx, viewer.ID, prefs); err != nil {
			log.Fatalf("seed preferences for %q: %v", dv.username, err)
		}
	}
	logger.Printf("seeded %d demo viewers", len(viewers))
}
