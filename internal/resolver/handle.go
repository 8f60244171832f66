package resolver

// Response is a rendered reply together with the request it answers.
type Response struct {
	Request Request
	Status  int
	Payload []byte
}

// Handle runs parse, classify and render for one received buffer.
// Any error means the connection should be closed without a reply.
func (r *Resolver) Handle(raw []byte) (Response, error) {
	req, err := ParseRequestLine(raw)
	if err != nil {
		return Response{}, err
	}

	outcome := r.Classify(req)
	payload, err := r.Render(outcome)
	if err != nil {
		return Response{Request: req}, err
	}

	return Response{Request: req, Status: outcome.Status(), Payload: payload}, nil
}
