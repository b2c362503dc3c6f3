package seed

import (
	"log"
	"math/rand"
	"time"

	"linkup/internal/models"

	"gorm.io/gorm"
)

// Demo populates the database with a small connected social graph:
// users, a mix of accepted and pending friendships, posts, likes, and
// comments. Intended for local development.
func Demo(db *gorm.DB, userCount, postsPerUser int) error {
	if userCount <= 0 {
		userCount = 10
	}
	if postsPerUser <= 0 {
		postsPerUser = 3
	}

	f := NewFactory(db, Options{})
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, u)
	}

	// Friendships: each user befriends roughly a third of the others.
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			switch r.Intn(6) {
			case 0, 1:
				if err := f.CreateFriendship(users[i], users[j], models.FriendshipStatusAccepted); err != nil {
					return err
				}
			case 2:
				if err := f.CreateFriendship(users[i], users[j], models.FriendshipStatusPending); err != nil {
					return err
				}
			}
		}
	}

	var posts []*models.Post
	for _, u := range users {
		for i := 0; i < postsPerUser; i++ {
			p, err := f.CreatePost(u)
			if err != nil {
				return err
			}
			posts = append(posts, p)
		}
	}

	// Likes and comments from random users.
	for _, p := range posts {
		for _, u := range users {
			if r.Intn(3) == 0 {
				if err := f.CreateLike(u, p); err != nil {
					return err
				}
			}
			if r.Intn(5) == 0 {
				if _, err := f.CreateComment(u, p); err != nil {
					return err
				}
			}
		}
	}

	log.Printf("Seeded %d users and %d posts", len(users), len(posts))
	return nil
}
