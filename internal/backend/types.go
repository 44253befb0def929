package backend

// Wire contracts of the plant backend. The record-work and
// validate-order endpoints share the ResultInformation shape.

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse tolerates both token field spellings the backend
// variants emit.
type authResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

func (r authResponse) token() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

type validateOrderRequest struct {
	OrderNumber              string `json:"orderNumber"`
	IsEmployeePreparedFacade bool   `json:"isEmployeePreparedFacade"`
}

// resultInformation is the structured outcome envelope. Success requires
// needAlert == false and orderWasUpdated == true; needAlert == true is
// always a failure with an audible alert.
type resultInformation struct {
	Message         string `json:"message"`
	OrderWasUpdated bool   `json:"orderWasUpdated"`
	NeedAlert       bool   `json:"needAlert"`
}
