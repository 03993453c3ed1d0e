package content

type Loader interface {
	LoadDir(root string) ([]Content, error)
	Find(list []Content, id string) (Content, error)
}
