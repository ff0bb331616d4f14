package entity

type PolicyKind string

const (
	PolicyPrivacy  PolicyKind = "privacy"
	PolicyRefund   PolicyKind = "refund"
	PolicyTerms    PolicyKind = "terms"
	PolicyShipping PolicyKind = "shipping"
)

func PolicyKinds() []PolicyKind {
	return []PolicyKind{PolicyPrivacy, PolicyRefund, PolicyTerms, PolicyShipping}
}

type PolicyDocument struct {
	Kind  PolicyKind `json:"kind"`
	Title string     `json:"title"`
	Body  string     `json:"body"`
}
