package types

// NetworkResponse 浏览器中截获的一次网络响应
type NetworkResponse struct {
	Url        string
	UrlPattern string
	Status     int
	Body       []byte
}
