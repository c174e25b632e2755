package api

// TokenPair is an access/refresh pair as issued by login or refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type User struct {
	ID       ID     `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse carries tokens either as tokens.access/refresh or as a
// single bare token.
type LoginResponse struct {
	Message string     `json:"message"`
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	Tokens  *TokenPair `json:"tokens"`
	User    *User      `json:"user"`
}

// Pair returns the issued tokens, preferring the structured form.
func (r LoginResponse) Pair() TokenPair {
	if r.Tokens != nil && r.Tokens.Access != "" {
		return *r.Tokens
	}
	return TokenPair{Access: r.Token}
}

type refreshResponse struct {
	TokenPair
	Tokens *TokenPair `json:"tokens"`
}

func (r refreshResponse) pair() TokenPair {
	if r.Access == "" && r.Tokens != nil {
		return *r.Tokens
	}
	return r.TokenPair
}

// MessageResponse is the body of the OTP and credential endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type Profile struct {
	ID                ID     `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	DisplayName       string `json:"display_name"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	FullName          string `json:"full_name"`
	Bio               string `json:"bio"`
	Avatar            string `json:"avatar"`
	ProfileImage      string `json:"profile_image"`
	CoverPhoto        string `json:"cover_photo"`
	Role              string `json:"role"`
	FollowersCount    int    `json:"followers_count"`
	PostsCount        int    `json:"posts_count"`
	SharesCount       int    `json:"shares_count"`
	ContributorsCount int    `json:"contributors_count"`
}

// Name is the best display name the profile offers.
func (p Profile) Name() string {
	for _, s := range []string{p.DisplayName, p.FullName, p.Username} {
		if s != "" {
			return s
		}
	}
	return p.Email
}

// ProfileUpdate is a partial profile; nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
}

type Post struct {
	ID            ID       `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Link          string   `json:"link"`
	PostType      string   `json:"post_type"`
	Tags          []string `json:"tags"`
	Media         []string `json:"media"`
	Author        string   `json:"author"`
	CreatedAt     string   `json:"created_at"`
	LikesCount    int      `json:"likes_count"`
	CommentsCount int      `json:"comments_count"`
	IsLiked       bool     `json:"is_liked"`
	LikeID        ID       `json:"like_id"`
}

// Post types accepted by the API.
const (
	PostTypeText  = "text"
	PostTypeMedia = "media"
	PostTypeLink  = "link"
)

type NewPost struct {
	Title    string   `validate:"required,max=300"`
	Content  string   `validate:"max=10000"`
	Link     string   `validate:"omitempty,url"`
	Tags     []string `validate:"dive,required,max=50"`
	PostType string   `validate:"required,oneof=text media link"`
}

type Like struct {
	ID   ID `json:"id"`
	Post ID `json:"post"`
}

type Comment struct {
	ID        ID     `json:"id"`
	Post      ID     `json:"post"`
	Parent    ID     `json:"parent"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type NewComment struct {
	Post    ID     `json:"post" validate:"required"`
	Content string `json:"content" validate:"required,max=5000"`
	Parent  ID     `json:"parent,omitempty"`
}

// Community visibilities accepted by the API.
const (
	VisibilityPublic     = "public"
	VisibilityRestricted = "restricted"
	VisibilityPrivate    = "private"
)

type Community struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Visibility   string `json:"visibility"`
	Banner       string `json:"banner"`
	Icon         string `json:"icon"`
	MembersCount int    `json:"members_count"`
}

// NewCommunity also describes the community's first post. Empty Title,
// Content and PostType default to Name, Description and "text".
type NewCommunity struct {
	Name        string   `validate:"required,max=100"`
	Description string   `validate:"required,max=2000"`
	Visibility  string   `validate:"required,oneof=public restricted private"`
	Title       string   `validate:"max=300"`
	Content     string   `validate:"max=10000"`
	PostType    string   `validate:"omitempty,oneof=text media link"`
	Tags        []string `validate:"dive,required,max=50"`
}

type CommunityUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Title       *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Visibility  *string `json:"visibility,omitempty" validate:"omitempty,oneof=public restricted private"`
}

type Notification struct {
	ID         ID     `json:"id"`
	Sender     ID     `json:"sender"`
	SenderName string `json:"sender_name"`
	Type       string `json:"notification_type"`
	Post       ID     `json:"post"`
	PostTitle  string `json:"post_title"`
	Comment    ID     `json:"comment"`
	CreatedAt  string `json:"created_at"`
	IsRead     bool   `json:"is_read"`
}
