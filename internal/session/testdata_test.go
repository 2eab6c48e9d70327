package session

// validKubeconfig is a syntactically valid kubeconfig pointing at an
// unreachable endpoint. Used across the package tests; connectivity is
// always stubbed, never exercised against a real cluster.
const validKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://10.255.255.1:6443
  name: demo
contexts:
- context:
    cluster: demo
    user: demo-admin
    namespace: monitoring
  name: demo
- context:
    cluster: demo
    user: demo-admin
  name: demo-default-ns
current-context: demo
users:
- name: demo-admin
  user:
    token: test-bearer-token
`

func mustParse(blob, context string) *ClusterCredential {
	cred, err := ParseCredential([]byte(blob), context)
	if err != nil {
		panic(err)
	}
	return cred
}
