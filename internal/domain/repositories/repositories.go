package repositories

// Repositories bundles one implementation of every repository, all backed
// by the same store.
type Repositories struct {
	People        PersonRepository
	Posts         PostRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Reports       ReportRepository
	Conversations ConversationRepository
	Aspects       AspectRepository
	Tags          TagRepository
	Tokens        TokenRepository
	TxManager     TransactionManager
}
