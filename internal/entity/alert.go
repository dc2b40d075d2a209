package entity

// AlertMessage is a fully rendered outbound notification. It is immutable
// once constructed; ownership passes to the dispatcher, which never
// modifies it.
type AlertMessage struct {
	Text string
}
