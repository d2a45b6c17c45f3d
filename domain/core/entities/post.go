package entities

// Post is the stored shape of a record in the posts collection.
// UserID is a soft reference to User.ID.
type Post struct {
	ID     int    `json:"id" bson:"id"`
	UserID int    `json:"userId" bson:"userId"`
	Title  string `json:"title" bson:"title"`
	Body   string `json:"body" bson:"body"`
}

// Comment is the stored shape of a record in the comments collection.
// PostID is a soft reference to Post.ID.
type Comment struct {
	ID     int    `json:"id" bson:"id"`
	PostID int    `json:"postId" bson:"postId"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Body   string `json:"body" bson:"body"`
}

// PostWithComments is a post carrying the comments that reference it
type PostWithComments struct {
	Post
	Comments []Comment `json:"comments"`
}

// AttachComments groups comments onto their owning post by exact postId
// equality. Every returned post carries a non-nil comments slice and a
// comment lands under at most one post.
func AttachComments(posts []Post, comments []Comment) []PostWithComments {
	byPost := make(map[int][]Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	out := make([]PostWithComments, 0, len(posts))
	for _, p := range posts {
		cs := byPost[p.ID]
		if cs == nil {
			cs = []Comment{}
		}
		out = append(out, PostWithComments{Post: p, Comments: cs})
	}
	return out
}

// PostIDs returns the ids of the given posts in order
func PostIDs(posts []Post) []int {
	ids := make([]int, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
