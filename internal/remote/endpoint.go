package remote

import (
	"net/http"
	"net/url"
)

// Endpoint names one operation of the scoring service.
type Endpoint string

const (
	EndpointReviewStatus     Endpoint = "reviewstatus"
	EndpointPhonemesCovered  Endpoint = "phonemescovered"
	EndpointReviewSpelling   Endpoint = "reviewspell"
	EndpointReviewHomophones Endpoint = "reviewhomoph"
	EndpointLearn            Endpoint = "learn"
	EndpointSpelling         Endpoint = "spell"
	EndpointHomophones       Endpoint = "homophones"
	EndpointSpellingCheck    Endpoint = "checkspellanswer"
	EndpointHomophoneCheck   Endpoint = "checkhomophanswer"
	EndpointSaveProgress     Endpoint = "saveprogress"
)

// Shape is the top-level JSON shape an endpoint must answer with.
type Shape int

const (
	ShapeAny Shape = iota
	ShapeList
	ShapeRecord
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeRecord:
		return "record"
	default:
		return "any"
	}
}

type endpointSpec struct {
	method   string
	param    bool
	shape    Shape
	contract *Contract
}

var endpoints = map[Endpoint]endpointSpec{
	EndpointReviewStatus:     {method: http.MethodGet, shape: ShapeRecord, contract: reviewStatusContract},
	EndpointPhonemesCovered:  {method: http.MethodGet, shape: ShapeList, contract: phonemesCoveredContract},
	EndpointReviewSpelling:   {method: http.MethodGet, shape: ShapeList, contract: spellingListContract},
	EndpointReviewHomophones: {method: http.MethodGet, shape: ShapeList, contract: homophoneListContract},
	EndpointLearn:            {method: http.MethodGet, shape: ShapeRecord, contract: learnContract},
	EndpointSpelling:         {method: http.MethodGet, param: true, shape: ShapeList, contract: spellingListContract},
	EndpointHomophones:       {method: http.MethodGet, param: true, shape: ShapeList, contract: homophoneListContract},
	EndpointSpellingCheck:    {method: http.MethodPost, shape: ShapeRecord, contract: spellingVerdictContract},
	EndpointHomophoneCheck:   {method: http.MethodPost, shape: ShapeRecord, contract: homophoneVerdictContract},
	EndpointSaveProgress:     {method: http.MethodPost, shape: ShapeRecord, contract: saveProgressContract},
}

// Method returns the HTTP method used for the endpoint.
func (e Endpoint) Method() string {
	if spec, ok := endpoints[e]; ok {
		return spec.method
	}
	return http.MethodGet
}

// Path returns the URL path for the endpoint. The parameter is only used
// by endpoints scoped to a phoneme.
func (e Endpoint) Path(param string) string {
	p := "/" + string(e)
	if spec, ok := endpoints[e]; ok && spec.param {
		p += "/" + url.PathEscape(param)
	}
	return p
}

// Shape returns the expected top-level shape of a successful response.
func (e Endpoint) Shape() Shape {
	return endpoints[e].shape
}

func (e Endpoint) contract() *Contract {
	return endpoints[e].contract
}
